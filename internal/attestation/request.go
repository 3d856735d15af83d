// Package attestation is the social attestation coordinator. It issues one
// request per attester, dispatches it for delivery, records the attester's
// answer and reports it back to the session that asked.
package attestation

import (
	"time"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// Status is the lifecycle of a single attestation request. Confirmed and
// declined mirror the attester's answer; cancelled means the session no
// longer wants one.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// IsOpen reports whether the request still accepts an answer.
func (s Status) IsOpen() bool { return s == StatusPending }

// Request is one attester's verification request.
type Request struct {
	ID            id.AttestationID    `json:"id"`
	SessionID     id.SessionID        `json:"session_id"`
	UserID        id.UserID           `json:"user_id"`
	AttesterIndex int                 `json:"attester_index"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone,omitempty"`
	Relationship  models.Relationship `json:"relationship"`
	Status        Status              `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	ExpiresAt     time.Time           `json:"expires_at,omitzero"`
	RespondedAt   time.Time           `json:"responded_at,omitzero"`
}

// Expired reports whether an open request is past its deadline.
func (r *Request) Expired(now time.Time) bool {
	return r.Status.IsOpen() && !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

func attesterStatus(s Status) models.AttesterStatus {
	switch s {
	case StatusConfirmed:
		return models.AttesterConfirmed
	case StatusDeclined:
		return models.AttesterDeclined
	default:
		return models.AttesterPending
	}
}
