// Package hook calls lifecycle hooks around background jobs.
package hook

import (
	"context"
	"errors"
	"fmt"
)

// Hook is called before and after a value is processed.
type Hook[T any, R any] interface {
	// Before is called before T is processed. When it fails, T is not processed.
	Before(context.Context, T) (R, error)

	// After is called after T is processed successfully.
	After(context.Context, T) error
}

type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseAfter  Phase = "after"
)

// PhaseHeader is the request header telling Phase to web hooks.
const PhaseHeader = "X-Photoshare-Hook-Phase"

var ErrHookFailed = errors.New("hook failed")

func failed(phase Phase, err error) error {
	return fmt.Errorf("%w (%s): %w", ErrHookFailed, phase, err)
}
