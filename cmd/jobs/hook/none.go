package hook

import "context"

// None is a hook for jobs without any hook configured.
type None[T any] struct{}

func (None[T]) Before(context.Context, T) (struct{}, error) { return struct{}{}, nil }

func (None[T]) After(context.Context, T) error { return nil }
