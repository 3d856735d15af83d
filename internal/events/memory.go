package events

import (
	"context"
	"log/slog"
	"sync"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
)

// MemoryPublisher keeps events in process. It backs local runs without a
// broker and lets tests inspect what was sent.
type MemoryPublisher struct {
	mu           sync.Mutex
	decisions    []models.TierDecision
	attestations []attestation.Request
	logger       *slog.Logger
}

func NewMemoryPublisher(logger *slog.Logger) *MemoryPublisher {
	return &MemoryPublisher{logger: logger}
}

func (p *MemoryPublisher) PublishTierDecision(ctx context.Context, d models.TierDecision) error {
	p.mu.Lock()
	p.decisions = append(p.decisions, d)
	p.mu.Unlock()
	if p.logger != nil {
		p.logger.InfoContext(ctx, "tier decision published",
			"session_id", d.SessionID.String(),
			"user_id", d.UserID.String(),
			"outcome", string(d.Outcome),
			"resulting_tier", d.ResultingTier.Int(),
		)
	}
	return nil
}

func (p *MemoryPublisher) DispatchAttestationRequest(ctx context.Context, req attestation.Request) error {
	p.mu.Lock()
	p.attestations = append(p.attestations, req)
	p.mu.Unlock()
	if p.logger != nil {
		p.logger.InfoContext(ctx, "attestation request dispatched",
			"attestation_id", req.ID.String(),
			"session_id", req.SessionID.String(),
		)
	}
	return nil
}

func (p *MemoryPublisher) Decisions() []models.TierDecision {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.TierDecision(nil), p.decisions...)
}

func (p *MemoryPublisher) AttestationRequests() []attestation.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]attestation.Request(nil), p.attestations...)
}
