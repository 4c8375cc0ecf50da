package recurring

import (
	"context"

	"github.com/opst/photoshare/pkg/loop"
)

// Task is a body of recurring loops.
//
// # Returns
//
// - T: passed to the next task, as loop.Task[T] does.
//
// - bool: true when the task did something in this cycle, and more backlog can be.
// Otherwise false.
//
// - error: the loop breaks with it when Policy says so.
type Task[T any] func(context.Context, T) (T, bool, error)

// Applied makes loop.Task which runs rt and asks p what to do next.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, t T) (T, loop.Next) {
		next, ok, err := rt(ctx, t)
		return next, p.Next(ok, err)
	}
}
