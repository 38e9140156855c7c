package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Gateway clients return these
// (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states reported by external collaborators, not
// validation failures:
// - ErrNotFound: case, document or record does not exist upstream
// - ErrConflict: the case store rejected a stale event token
// - ErrAlreadyUsed: an event token has already been consumed locally
// - ErrUnavailable: collaborator temporarily unreachable (retryable)
// - ErrUnauthorized: the collaborator rejected the caller's credentials
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrUnavailable  = errors.New("unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)
