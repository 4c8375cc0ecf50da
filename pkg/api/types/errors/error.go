// Package errors builds HTTP errors of REST endpoints.
//
// Error bodies are formatted as
//
//	{"message": {"reason": "...", "advice": "...", "see": "..."}}
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(bytes []byte) error {
	f := new(struct {
		Reason *string `json:"reason"`
		Advice string  `json:"advice"`
		See    string  `json:"see"`
	})
	if err := json.Unmarshal(bytes, f); err != nil {
		return err
	}
	if f.Reason == nil {
		return fmt.Errorf(`required field missing: "reason"`)
	}
	em.Reason = *f.Reason
	em.Advice = f.Advice
	em.See = f.See
	return nil
}

func (e ErrorMessage) Error() string {
	lines := []string{e.Reason}
	if e.Advice != "" {
		lines = append(lines, e.Advice)
	}
	if e.Cause != nil {
		lines = append(lines, "caused by: "+e.Cause.Error())
	}
	return strings.Join(lines, "\n")
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(in *ErrorMessage)

func WithAdvice(advice string) ErrorMessageOption {
	return func(in *ErrorMessage) { in.Advice = advice }
}

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) { in.Cause = err }
}

func WithSee(see string) ErrorMessageOption {
	return func(in *ErrorMessage) { in.See = see }
}

func NewErrorMessage(code int, reason string, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Reason: reason}
	for _, opt := range opts {
		opt(&msg)
	}
	return echo.NewHTTPError(code, msg).SetInternal(msg)
}

func BadRequest(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, "bad request", WithAdvice(advice), WithError(err))
}

func Unauthorized() *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, "unauthorized", WithAdvice("sign in and retry."))
}

func Forbidden(err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusForbidden, "forbidden", WithError(err))
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func Conflict(message string, options ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, message, options...)
}

func PayloadTooLarge(limit int64) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusRequestEntityTooLarge, "payload too large",
		WithAdvice(fmt.Sprintf("send %d bytes at most.", limit)),
	)
}

func UnsupportedMediaType(advice string) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnsupportedMediaType, "unsupported media type", WithAdvice(advice))
}

func ServiceUnavailable(advice string, err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusServiceUnavailable, "service unavailable temporarily",
		WithAdvice(advice), WithError(err),
	)
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusInternalServerError, "unexpected error", WithError(err))
}

// FromDomain converts an error from domain layer into HTTP error.
//
// Errors not from domain are regarded as internal server errors.
func FromDomain(err error) *echo.HTTPError {
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &herr):
		return herr
	case errors.Is(err, domerr.ErrMissing):
		return NotFound()
	case errors.Is(err, domerr.ErrUnauthenticated):
		return Unauthorized()
	case errors.Is(err, domerr.ErrForbidden):
		return Forbidden(err)
	case errors.Is(err, domerr.ErrInvalidArgument):
		return BadRequest(err.Error(), err)
	case errors.Is(err, domerr.ErrConflict):
		return Conflict("conflict", WithAdvice(err.Error()), WithError(err))
	default:
		return InternalServerError(err)
	}
}
