package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrNoActiveSession    = errors.New("no active session")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStoreBusy          = errors.New("store is busy")
	ErrMalformedData      = errors.New("malformed stored data")
)
