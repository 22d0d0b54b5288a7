package errors

import (
	"strings"
)

// MultiError is the slice of errors parsable into a single error.
type MultiError []error

// Error implements error interface.
func (m MultiError) Error() string {
	sb := &strings.Builder{}

	for i, e := range m {
		sb.WriteString(e.Error())
		if i != len(m)-1 {
			sb.WriteString(",")
		}
	}
	return sb.String()
}

// Is checks if any of the errors matches the 'target'.
func (m MultiError) Is(target error) bool {
	for _, e := range m {
		if Is(e, target) {
			return true
		}
	}
	return false
}

// ErrorOrNil returns nil if the multi error is empty.
func (m MultiError) ErrorOrNil() error {
	if len(m) == 0 {
		return nil
	}
	return m
}
