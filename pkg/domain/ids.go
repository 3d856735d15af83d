package domain

import (
	"github.com/google/uuid"

	dErrors "suresavings/pkg/domain-errors"
)

// Typed identifiers. Distinct types keep a session ID from being passed where a
// user or attestation request ID is expected.
type (
	UserID        uuid.UUID
	SessionID     uuid.UUID
	AttestationID uuid.UUID
)

func parseID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return parsed, nil
}

// ParseUserID parses a non-nil UUID user identifier.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseID(s, "user id")
	return UserID(parsed), err
}

// ParseSessionID parses a non-nil UUID verification session identifier.
func ParseSessionID(s string) (SessionID, error) {
	parsed, err := parseID(s, "session id")
	return SessionID(parsed), err
}

// ParseAttestationID parses a non-nil UUID attestation request identifier.
func ParseAttestationID(s string) (AttestationID, error) {
	parsed, err := parseID(s, "attestation id")
	return AttestationID(parsed), err
}

func NewSessionID() SessionID         { return SessionID(uuid.New()) }
func NewAttestationID() AttestationID { return AttestationID(uuid.New()) }

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id SessionID) String() string     { return uuid.UUID(id).String() }
func (id AttestationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id AttestationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id AttestationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error        { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *AttestationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
