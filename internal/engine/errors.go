package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is; the concrete *Error carries the
// message shown to the operator.
var (
	ErrValidation   = errors.New("validation failed")
	ErrPrecondition = errors.New("precondition failed")
	ErrInvalidState = errors.New("invalid state for operation")
	ErrNotFound     = errors.New("requested resource not found")
	ErrIntegrity    = errors.New("integrity violation")
	ErrSystemLocked = errors.New("system is locked")
)

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(err error) error {
	return &Error{Kind: ErrValidation, Message: err.Error()}
}
