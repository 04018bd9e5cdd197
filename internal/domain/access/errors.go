package access

import "errors"

var (
	// ErrUnauthenticated indicates no usable credentials were presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the caller may not touch the requested data.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput indicates an invalid principal or key request.
	ErrInvalidInput = errors.New("invalid access input")
)
