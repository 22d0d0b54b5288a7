package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/google/uuid"
)

// DetailedError is the error with a classification, trackable ID and the details.
// It matches its classification error when compared with Is.
type DetailedError struct {
	// ID is a unique error instance identification number.
	ID uuid.UUID
	// Details contains the detailed information.
	Details string
	// Operation is the operation name when the error occurred.
	Operation string

	class   error
	message string
}

// WrapDet creates new DetailedError of 'class' with provided 'message'.
func WrapDet(class error, message string) *DetailedError {
	err := newDetailed(class)
	err.message = message
	return err
}

// WrapDetf creates new DetailedError of 'class' with formatted message.
func WrapDetf(class error, format string, args ...interface{}) *DetailedError {
	err := newDetailed(class)
	err.message = fmt.Sprintf(format, args...)
	return err
}

// Class gets the error classification.
func (e *DetailedError) Class() error {
	return e.class
}

// Error implements error interface.
func (e *DetailedError) Error() string {
	if e.class == nil {
		return e.message
	}
	return e.class.Error() + ": " + e.message
}

// Unwrap implements errors unwrapping.
func (e *DetailedError) Unwrap() error {
	return e.class
}

// WithDetail sets the error 'detail' and returns itself.
func (e *DetailedError) WithDetail(detail string) *DetailedError {
	e.Details = detail
	return e
}

// WithDetailf sets the error's formatted detail and returns itself.
func (e *DetailedError) WithDetailf(format string, args ...interface{}) *DetailedError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

func newDetailed(class error) *DetailedError {
	err := &DetailedError{
		ID:    uuid.New(),
		class: class,
	}
	pc, _, _, ok := runtime.Caller(2)
	details := runtime.FuncForPC(pc)
	if ok && details != nil {
		file, line := details.FileLine(pc)
		_, singleFile := filepath.Split(file)
		err.Operation = details.Name() + "#" + singleFile + ":" + strconv.Itoa(line)
	}
	return err
}
