package errors

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRole      = errors.New("invalid role")
	ErrAlreadyExists    = errors.New("organization already exists")
	ErrNotFound         = errors.New("organization not found")
)
