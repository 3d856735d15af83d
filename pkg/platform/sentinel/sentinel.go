package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, adapters and the session
// registry return these (optionally wrapped) so services can translate them
// into domain errors.
//
//   - ErrNotFound: session, attestation request or record does not exist
//   - ErrExpired: attestation request or cached position is past its lifetime
//   - ErrInvalidState: entity in wrong state for requested operation
//   - ErrUnavailable: collaborator temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
