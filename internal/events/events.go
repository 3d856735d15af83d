// Package events publishes KYC events for collaborators outside the engine:
// attestation requests for the delivery service that contacts attesters, and
// tier decisions for the service that persists the user's tier.
package events

import (
	"time"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
)

const (
	DefaultDecisionTopic    = "kyc.tier-decisions"
	DefaultAttestationTopic = "kyc.attestation-requests"

	TypeTierDecided          = "kyc.tier_decided"
	TypeAttestationRequested = "kyc.attestation_requested"
)

// Envelope wraps every published payload.
type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// TierDecisionPayload is the wire form of a concluded session.
type TierDecisionPayload struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	PreviousTier  int    `json:"previous_tier"`
	TargetTier    int    `json:"target_tier"`
	ResultingTier int    `json:"resulting_tier"`
	DailyLimit    int64  `json:"daily_limit"`
	Method        string `json:"method"`
	Outcome       string `json:"outcome"`
	Reason        string `json:"reason,omitempty"`
	DecidedAt     string `json:"decided_at"`
}

// AttestationRequestPayload carries what the delivery service needs to
// reach an attester.
type AttestationRequestPayload struct {
	RequestID    string `json:"request_id"`
	SessionID    string `json:"session_id"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	RespondURL   string `json:"respond_url,omitempty"`
}

func decisionPayload(d models.TierDecision) TierDecisionPayload {
	return TierDecisionPayload{
		SessionID:     d.SessionID.String(),
		UserID:        d.UserID.String(),
		PreviousTier:  d.PreviousTier.Int(),
		TargetTier:    d.TargetTier.Int(),
		ResultingTier: d.ResultingTier.Int(),
		DailyLimit:    d.DailyLimit,
		Method:        string(d.Method),
		Outcome:       string(d.Outcome),
		Reason:        string(d.Reason),
		DecidedAt:     d.DecidedAt.UTC().Format(time.RFC3339Nano),
	}
}

func attestationPayload(req attestation.Request, respondBaseURL string) AttestationRequestPayload {
	p := AttestationRequestPayload{
		RequestID:    req.ID.String(),
		SessionID:    req.SessionID.String(),
		UserID:       req.UserID.String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Relationship: string(req.Relationship),
	}
	if !req.ExpiresAt.IsZero() {
		p.ExpiresAt = req.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if respondBaseURL != "" {
		p.RespondURL = respondBaseURL + "/attestations/" + req.ID.String()
	}
	return p
}
