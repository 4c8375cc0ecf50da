package hook

import "context"

// Func is a hook calling functions. Nil functions are skipped.
type Func[T any, R any] struct {
	BeforeFn func(context.Context, T) (R, error)
	AfterFn  func(context.Context, T) error
}

func (f Func[T, R]) Before(ctx context.Context, value T) (R, error) {
	var zero R
	if f.BeforeFn == nil {
		return zero, nil
	}
	r, err := f.BeforeFn(ctx, value)
	if err != nil {
		return zero, failed(PhaseBefore, err)
	}
	return r, nil
}

func (f Func[T, R]) After(ctx context.Context, value T) error {
	if f.AfterFn == nil {
		return nil
	}
	if err := f.AfterFn(ctx, value); err != nil {
		return failed(PhaseAfter, err)
	}
	return nil
}
