package errors

import "errors"

// ErrMissing is returned when the requested record does not exist
// (or is not visible for the actor).
var ErrMissing = errors.New("missing")

// ErrTooMuch is returned when more records are found than expected.
var ErrTooMuch = errors.New("too much")

// ErrConflict is returned when the change collides with existing state.
var ErrConflict = errors.New("conflict")

// ErrInvalidArgument is returned when an argument breaks domain rules.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrForbidden is returned when a signed-in actor is not permitted.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated is returned when a guest tries an action requiring sign-in.
var ErrUnauthenticated = errors.New("unauthenticated")
