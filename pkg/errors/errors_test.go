package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	xe "github.com/opst/photoshare/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inner(err error) error {
	return xe.Wrap(err)
}

func outer(err error) error {
	return xe.Wrapf(inner(err), "loading photo %d", 42)
}

func TestWrap(t *testing.T) {
	base := errors.New("base error")

	t.Run("it keeps the wrapped error reachable", func(t *testing.T) {
		assert.ErrorIs(t, outer(base), base)
	})

	t.Run("message is not changed, except for notes", func(t *testing.T) {
		assert.Equal(t, "base error", inner(base).Error())
		assert.Equal(t, "loading photo 42: base error", outer(base).Error())
		assert.Equal(t, "loading photo 42: base error", fmt.Sprintf("%v", outer(base)))
	})

	t.Run("it records where it is wrapped", func(t *testing.T) {
		trace := xe.Trace(fmt.Errorf("handler: %w", outer(base)))
		require.Len(t, trace, 2)

		assert.True(t, strings.HasSuffix(trace[0].Func, ".outer"), trace[0].Func)
		assert.True(t, strings.HasSuffix(trace[1].Func, ".inner"), trace[1].Func)
		for _, f := range trace {
			assert.True(t, strings.HasSuffix(f.File, "errors_test.go"), f.File)
			assert.Positive(t, f.Line)
		}
	})

	t.Run("%+v prints the trace", func(t *testing.T) {
		lines := strings.Split(fmt.Sprintf("%+v", outer(base)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "loading photo 42: base error", lines[0])
		assert.Contains(t, lines[1], "errors_test.go:")
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, xe.Wrap(nil))
		assert.NoError(t, xe.Wrapf(nil, "note"))
	})

	t.Run("unmarked error has no trace", func(t *testing.T) {
		assert.Empty(t, xe.Trace(base))
	})
}
