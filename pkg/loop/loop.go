// Package loop runs a task repeatedly until it says to stop.
package loop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

// Next tells Start what to do after a task.
//
// Zero value means "continue without interval".
type Next struct {
	// if not nil, breaks with error
	err error

	// if quit == true and err == nil, breaks without error
	quit bool

	// otherwise, continue loop with interval.
	interval time.Duration
}

func (n Next) String() string {
	if n.err != nil {
		return fmt.Sprintf("[break] with error: %v", n.err)
	}
	if n.quit {
		return "[break] without error"
	}

	return fmt.Sprintf("[continue] interval: %s", n.interval)
}

// Breaks tells the loop stops after this.
func (n Next) Breaks() bool {
	return n.quit
}

// Err is the error which the loop breaks with.
func (n Next) Err() error {
	return n.err
}

// Interval to wait before the next task. It is meaningless when Breaks.
func (n Next) Interval() time.Duration {
	return n.interval
}

// Continue the loop after interval.
func Continue(interval time.Duration) Next {
	return Next{interval: interval}
}

// Break the loop. err can be nil.
func Break(err error) Next {
	return Next{quit: true, err: err}
}

// Task is a body of loop.
//
// It receives the value returned last time (or the initial value),
// and returns the value for the next time and what to do next.
type Task[T any] func(context.Context, T) (T, Next)

// ErrPanicked is the error the loop breaks with when a task panics.
var ErrPanicked = errors.New("task panicked")

// Start runs task repeatedly until it returns Break or ctx is done.
//
// A panic in task breaks the loop with ErrPanicked, holding the panic value and the stack.
//
// It returns the value task returned last, even with error.
// The error is one passed to Break, ctx.Err() or ErrPanicked.
func Start[T any](ctx context.Context, init T, task Task[T], options ...Option) (T, error) {
	if err := ctx.Err(); err != nil {
		return init, err
	}

	value := init
	for {
		v, n := runOnce(ctx, value, task, options)
		if n.quit {
			return v, n.err
		}
		value = v

		timer := time.NewTimer(n.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return value, ctx.Err()
		case <-timer.C:
		}
	}
}

func runOnce[T any](ctx context.Context, value T, task Task[T], options []Option) (v T, n Next) {
	defer func() {
		if r := recover(); r != nil {
			v, n = value, Break(fmt.Errorf("%w: %v\n%s", ErrPanicked, r, debug.Stack()))
		}
	}()

	run := func(ctx context.Context) { v, n = task(ctx, value) }
	for i := len(options) - 1; 0 <= i; i-- {
		run = options[i](run)
	}
	run(ctx)
	return v, n
}

// Option wraps each run of tasks. Options are applied in the given order, outermost first.
type Option func(run func(context.Context)) func(context.Context)

// WithTimeout sets timeout on the context passed to each task.
func WithTimeout(d time.Duration) Option {
	return func(run func(context.Context)) func(context.Context) {
		return func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			run(ctx)
		}
	}
}
