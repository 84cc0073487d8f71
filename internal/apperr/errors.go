// Package apperr defines the error taxonomy shared across service and API layers.
package apperr

import "errors"

var (
	// ErrUnauthenticated means the request carried no valid credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the record exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means no record matches the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument means the request was rejected before touching storage.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists means a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)
