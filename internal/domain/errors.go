package domain

import "errors"

var (
	// ErrInvalidInput marks a blank or missing required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an unknown document id or conversation key.
	ErrNotFound = errors.New("not found")
	// ErrBackend marks a failure in an external collaborator. The message
	// carried to the caller is generic; the underlying cause is only logged.
	ErrBackend = errors.New("backend failure")
)

type userFacingError struct {
	kind error
	msg  string
}

func (e *userFacingError) Error() string { return e.msg }

func (e *userFacingError) Unwrap() error { return e.kind }

// InvalidInput returns an ErrInvalidInput carrying the given user-facing message.
func InvalidInput(msg string) error {
	return &userFacingError{kind: ErrInvalidInput, msg: msg}
}

// NotFound returns an ErrNotFound carrying the given user-facing message.
func NotFound(msg string) error {
	return &userFacingError{kind: ErrNotFound, msg: msg}
}

// Backend returns an ErrBackend carrying the given user-facing message.
func Backend(msg string) error {
	return &userFacingError{kind: ErrBackend, msg: msg}
}
