package domain

import "errors"

// Stable error kinds surfaced to callers. Services wrap these with
// fmt.Errorf("%w: ...") so handlers can map kind to status while keeping
// the message.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidState   = errors.New("invalid state")
	ErrInvalidRequest = errors.New("invalid request")
	ErrConflict       = errors.New("conflict")
	ErrUnauthorized   = errors.New("unauthorized")
)
