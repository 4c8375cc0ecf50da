package try_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/pkg/utils/try"
)

type fataler struct {
	fatal  [][]any
	helper uint
}

func (f *fataler) Fatal(args ...any) {
	f.fatal = append(f.fatal, args)
}

type helperFataler struct {
	fataler
}

func (hf *helperFataler) Helper() {
	hf.helper += 1
}

func TestTo(t *testing.T) {
	t.Run("when it does not have error, OrFatal returns the value without Fatal", func(t *testing.T) {
		f := &helperFataler{}
		got := try.To(42, nil).OrFatal(f)
		if got != 42 {
			t.Errorf("unexpected value: %d", got)
		}
		if len(f.fatal) != 0 || f.helper != 0 {
			t.Errorf("Fatal or Helper is called: %+v", f)
		}
	})

	t.Run("when it has error, OrFatal calls Helper and Fatal with the error", func(t *testing.T) {
		err := errors.New("fake error")
		f := &helperFataler{}
		got := try.To(42, err).OrFatal(f)
		if got != 0 {
			t.Errorf("unexpected value: %d", got)
		}
		if !cmp.Equal(f.fatal, [][]any{{err}}, cmp.Comparer(func(a, b error) bool { return a == b })) {
			t.Errorf("unexpected Fatal calls: %v", f.fatal)
		}
		if f.helper != 1 {
			t.Errorf("Helper is called %d times", f.helper)
		}
	})

	t.Run("OrFatal works for Fataler without Helper", func(t *testing.T) {
		f := &fataler{}
		try.To("", errors.New("fake error")).OrFatal(f)
		if len(f.fatal) != 1 {
			t.Errorf("unexpected Fatal calls: %v", f.fatal)
		}
	})

	t.Run("Get returns the pair", func(t *testing.T) {
		err := errors.New("fake error")
		if v, e := try.To(1, nil).Get(); v != 1 || e != nil {
			t.Errorf("unexpected pair: (%v, %v)", v, e)
		}
		if v, e := try.To(1, err).Get(); v != 0 || e != err {
			t.Errorf("unexpected pair: (%v, %v)", v, e)
		}
	})
}
