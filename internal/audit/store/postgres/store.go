// Package postgres persists the decision trail in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"suresavings/internal/audit"
	id "suresavings/pkg/domain"
)

//go:embed schema.sql
var schema string

// Migrate creates the decision table if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate kyc_decisions: %w", err)
	}
	return nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, rec audit.Record) error {
	var confidence sql.NullInt16
	if rec.OCRConfidence != nil {
		confidence = sql.NullInt16{Int16: int16(*rec.OCRConfidence), Valid: true}
	}
	query := `
		INSERT INTO kyc_decisions (
			id, session_id, user_id, previous_tier, target_tier, resulting_tier,
			method, outcome, reason, steps, bvn_hash, nin_hash,
			document_type, document_digest, ocr_confidence, selected_address,
			device, started_at, decided_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		uuid.UUID(rec.SessionID),
		uuid.UUID(rec.UserID),
		rec.PreviousTier.Int(),
		rec.TargetTier.Int(),
		rec.ResultingTier.Int(),
		rec.Method,
		rec.Outcome,
		rec.Reason,
		pq.Array(rec.Steps),
		rec.BVNHash,
		rec.NINHash,
		rec.DocumentType,
		rec.DocumentDigest,
		confidence,
		rec.SelectedAddress,
		rec.Device,
		rec.StartedAt,
		rec.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision record: %w", err)
	}
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Record, error) {
	query := `
		SELECT id, session_id, previous_tier, target_tier, resulting_tier,
			method, outcome, reason, steps, bvn_hash, nin_hash,
			document_type, document_digest, ocr_confidence, selected_address,
			device, started_at, decided_at
		FROM kyc_decisions
		WHERE user_id = $1
		ORDER BY decided_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query decision records: %w", err)
	}
	defer rows.Close()

	var out []audit.Record
	for rows.Next() {
		var (
			rec                      audit.Record
			sessionID                uuid.UUID
			previous, target, result  int
			confidence               sql.NullInt16
		)
		if err := rows.Scan(
			&rec.ID, &sessionID, &previous, &target, &result,
			&rec.Method, &rec.Outcome, &rec.Reason, pq.Array(&rec.Steps), &rec.BVNHash, &rec.NINHash,
			&rec.DocumentType, &rec.DocumentDigest, &confidence, &rec.SelectedAddress,
			&rec.Device, &rec.StartedAt, &rec.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("scan decision record: %w", err)
		}
		rec.SessionID = id.SessionID(sessionID)
		rec.UserID = userID
		rec.PreviousTier = id.Tier(previous)
		rec.TargetTier = id.Tier(target)
		rec.ResultingTier = id.Tier(result)
		if confidence.Valid {
			c := int(confidence.Int16)
			rec.OCRConfidence = &c
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision records: %w", err)
	}
	return out, nil
}
