package errors

import "errors"

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("election not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidState      = errors.New("operation not valid for current election state")
	ErrInvalidTransition = errors.New("state transition not permitted")
	ErrAlreadyRegistered = errors.New("voter already registered")
	ErrAlreadyVoted      = errors.New("voter already cast a ballot")
	ErrAlreadyFinalized  = errors.New("election already finalized")
	ErrInvalidCandidate  = errors.New("invalid candidate")
	ErrNotEligible       = errors.New("voter not eligible")
)
