// Package ports defines the collaborator contracts of the KYC workflow engine.
// Adapters for HTTP services, message brokers and stores implement these so
// the engine never depends on transport details.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// IdentityProvider verifies tier 1/2 evidence. A nil error with
// Approved=false is a rejection; errors are provider failures.
type IdentityProvider interface {
	Verify(ctx context.Context, tier id.Tier, evidence models.IdentityEvidence) (models.ProviderVerdict, error)
}

// OCRService extracts address data from a document image.
// Failures are returned as *models.OCRError.
type OCRService interface {
	Extract(ctx context.Context, image models.Image) (*models.OCRResult, error)
}

// ProximityVerifier decides whether a normalized address matches a fix.
// Failures are returned as *models.ProximityError.
type ProximityVerifier interface {
	Verify(ctx context.Context, address string, fix models.Position) (bool, error)
}

// PositionSource acquires the current position of the device driving a session.
type PositionSource interface {
	CurrentPosition(ctx context.Context, sessionID id.SessionID, opts models.PositionOptions) (*models.Position, error)
}

// AttestationCoordinator issues attestation requests and cancels outstanding
// ones. Responses arrive later through the coordinator's callback.
type AttestationCoordinator interface {
	Issue(ctx context.Context, req models.AttestationRequest) ([]id.AttestationID, error)
	Cancel(ctx context.Context, sessionID id.SessionID) error
}

// DecisionRecorder keeps an audit trail of concluded sessions.
type DecisionRecorder interface {
	Record(ctx context.Context, state *models.WorkflowState) error
}

// TierEventPublisher hands tier decisions to the collaborator that persists
// the user's tier.
type TierEventPublisher interface {
	PublishTierDecision(ctx context.Context, decision models.TierDecision) error
}
