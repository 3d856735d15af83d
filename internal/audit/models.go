// Package audit keeps the decision trail of concluded verification sessions.
// Identity numbers never reach the trail in clear text; only their SHA-256
// hashes are stored.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "suresavings/pkg/domain"
)

// Record is one concluded session attempt. A failed session that is
// restarted and concluded again produces a second record.
type Record struct {
	ID              uuid.UUID
	SessionID       id.SessionID
	UserID          id.UserID
	PreviousTier    id.Tier
	TargetTier      id.Tier
	ResultingTier   id.Tier
	Method          string
	Outcome         string
	Reason          string
	Steps           []string
	BVNHash         string
	NINHash         string
	DocumentType    string
	DocumentDigest  string
	OCRConfidence   *int
	SelectedAddress string
	Device          string
	StartedAt       time.Time
	DecidedAt       time.Time
}

// Store is the append-only record sink.
type Store interface {
	Append(ctx context.Context, rec Record) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Record, error)
}
