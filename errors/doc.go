// Package errors provides lightweight error handling and classification primitives.
//
// Errors are classified by wrapping sentinel errors into a hierarchy:
//
//	var (
//		ErrStore     = errors.New("store")
//		ErrNotFound  = errors.Wrap(ErrStore, "not found")
//	)
//
// Any error created by wrapping 'ErrNotFound' matches both 'ErrNotFound' and 'ErrStore'
// when compared with the Is function. DetailedError additionally carries a unique
// instance ID, the operation where it was created and the human readable details.
package errors
