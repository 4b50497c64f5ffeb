package models

import "errors"

// Platform error taxonomy. Services wrap these with context so callers
// can match with errors.Is and the API layer can map them to a status code.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInternalServer  = errors.New("internal server error")
)
