package errors

import (
	"errors"
	"fmt"
)

// ErrInternal is the root classification for internal errors.
var ErrInternal = New("internal")

// New creates new sentinel error with provided 'message'.
func New(message string) error {
	return errors.New(message)
}

// Wrap creates new classification error 'message' that is a subclass of 'err'.
func Wrap(err error, message string) error {
	return &wrapped{parent: err, message: message}
}

// Wrapf creates new classification error with formatted message that is a subclass of 'err'.
func Wrapf(err error, format string, args ...interface{}) error {
	return &wrapped{parent: err, message: fmt.Sprintf(format, args...)}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

type wrapped struct {
	parent  error
	message string
}

// Error implements error interface.
func (w *wrapped) Error() string {
	if w.parent == nil {
		return w.message
	}
	return w.parent.Error() + ": " + w.message
}

// Unwrap allows to compare wrapped errors with their parent classes.
func (w *wrapped) Unwrap() error {
	return w.parent
}
