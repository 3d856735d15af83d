package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// Recorder implements ports.DecisionRecorder on top of a Store.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Record appends the trail entry for a concluded session.
func (r *Recorder) Record(ctx context.Context, state *models.WorkflowState) error {
	rec := BuildRecord(state)
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = r.now()
	}
	if err := r.store.Append(ctx, rec); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "failed to append decision record",
				"session_id", state.ID.String(),
				"error", err,
			)
		}
		return fmt.Errorf("append decision record: %w", err)
	}
	return nil
}

func (r *Recorder) List(ctx context.Context, userID id.UserID) ([]Record, error) {
	return r.store.ListByUser(ctx, userID)
}

// BuildRecord derives the trail entry from a state. Raw BVN and NIN values
// are replaced by their hashes.
func BuildRecord(state *models.WorkflowState) Record {
	rec := Record{
		ID:              uuid.New(),
		SessionID:       state.ID,
		UserID:          state.UserID,
		PreviousTier:    state.CurrentTier,
		TargetTier:      state.TargetTier,
		ResultingTier:   state.CurrentTier,
		Method:          string(state.Method),
		Outcome:         string(state.Outcome),
		Reason:          string(state.FailureReason),
		Steps:           make([]string, len(state.Plan)),
		BVNHash:         HashIdentifier(state.Field(models.FieldBVN)),
		NINHash:         HashIdentifier(state.Field(models.FieldNIN)),
		SelectedAddress: state.Field(models.FieldSelectedAddress),
		Device:          state.Device,
		StartedAt:       state.StartedAt,
		DecidedAt:       state.ResolvedAt,
	}
	if state.Outcome == models.OutcomeComplete {
		rec.ResultingTier = state.ResultingTier
	}
	for i, step := range state.Plan {
		rec.Steps[i] = string(step.ID)
	}
	if state.TargetTier == id.Tier3 && state.Method == models.MethodDocument {
		rec.DocumentType = state.Field(models.FieldDocumentType)
		if state.DocumentImage != nil {
			rec.DocumentDigest = state.DocumentImage.Digest
		}
		if state.OCRResult != nil {
			confidence := state.OCRResult.Confidence
			rec.OCRConfidence = &confidence
		}
	}
	return rec
}

// HashIdentifier returns the hex SHA-256 of an identity number, or "" when
// none was collected.
func HashIdentifier(v string) string {
	if v == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(v))
	return hex.EncodeToString(sum[:])
}
