package models

import (
	"maps"
	"time"

	id "suresavings/pkg/domain"
)

// Outcome is the single terminal-outcome enum of a session. It only moves
// InProgress -> Complete or InProgress -> Failed.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeComplete   Outcome = "complete"
	OutcomeFailed     Outcome = "failed"
)

// IsTerminal reports whether the outcome is final.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeComplete || o == OutcomeFailed
}

// Phase refines OutcomeInProgress.
type Phase string

const (
	PhaseCollecting          Phase = "collecting"
	PhaseAwaitingAttestation Phase = "awaiting_attestation"
)

// FailureReason is reported to the caller when Outcome is Failed.
type FailureReason string

const (
	ReasonProviderRejected       FailureReason = "ProviderRejected"
	ReasonMissingEvidence        FailureReason = "MissingEvidence"
	ReasonAddressMismatch        FailureReason = "AddressMismatch"
	ReasonAttestationDeclined    FailureReason = "AttestationDeclined"
	ReasonAttestationExpired     FailureReason = "AttestationExpired"
	ReasonProximityUnavailable   FailureReason = "ProximityUnavailable"
	ReasonAttestationUnavailable FailureReason = "AttestationUnavailable"
)

var reasonMessages = map[FailureReason]string{
	ReasonProviderRejected:       "Verification failed. Please check your information and try again.",
	ReasonMissingEvidence:        "We could not verify your address because your document or location is missing. Please try again.",
	ReasonAddressMismatch:        "Address verification failed. The document address does not match your current location.",
	ReasonAttestationDeclined:    "One of your contacts declined to confirm your address.",
	ReasonAttestationExpired:     "Your contacts did not confirm your address in time.",
	ReasonProximityUnavailable:   "We could not check your address right now. Please try again.",
	ReasonAttestationUnavailable: "We could not contact your attesters. Please try again.",
}

// Message returns the user-facing text for the reason.
func (r FailureReason) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return "An error occurred during verification. Please try again."
}

// Collected field names.
const (
	FieldBVN             = "bvn"
	FieldNIN             = "nin"
	FieldDocumentType    = "document_type"
	FieldSelectedAddress = "selected_address"
)

// WorkflowState is one verification session. The engine is its only writer.
type WorkflowState struct {
	ID          id.SessionID
	UserID      id.UserID
	CurrentTier id.Tier
	TargetTier  id.Tier

	Plan             []StepDefinition
	CurrentStepIndex int

	Method       VerificationMethod
	MethodLocked bool

	CollectedFields map[string]string
	DocumentImage   *Image
	LivenessPhoto   *Image
	Geolocation     *Position
	OCRResult       *OCRResult
	SocialAttesters [AttesterCount]Attester

	Outcome       Outcome
	Phase         Phase
	FailureReason FailureReason
	ErrorMessage  string
	Notice        string
	ResultingTier id.Tier

	Device        string
	StartedAt     time.Time
	UpdatedAt     time.Time
	AwaitingSince time.Time
	ResolvedAt    time.Time
}

// CurrentStep returns the active step definition.
func (s *WorkflowState) CurrentStep() StepDefinition {
	return s.Plan[s.CurrentStepIndex]
}

// IsLastStep reports whether the cursor is on the final step.
func (s *WorkflowState) IsLastStep() bool {
	return s.CurrentStepIndex == len(s.Plan)-1
}

// Field returns a collected field value.
func (s *WorkflowState) Field(name string) string {
	return s.CollectedFields[name]
}

// StepIndex returns the position of a step in the plan, or -1.
func (s *WorkflowState) StepIndex(stepID StepID) int {
	for i, step := range s.Plan {
		if step.ID == stepID {
			return i
		}
	}
	return -1
}

// Progress returns the 1-based step number, total steps and percent complete.
func (s *WorkflowState) Progress() (step, total, percent int) {
	total = len(s.Plan)
	if total == 0 {
		return 0, 0, 0
	}
	step = s.CurrentStepIndex + 1
	return step, total, step * 100 / total
}

// AttesterStatuses returns the status of each attester in order.
func (s *WorkflowState) AttesterStatuses() [AttesterCount]AttesterStatus {
	var out [AttesterCount]AttesterStatus
	for i, a := range s.SocialAttesters {
		out[i] = a.Status
	}
	return out
}

// ClearEvidence drops every collected input and derived fact.
func (s *WorkflowState) ClearEvidence() {
	s.CollectedFields = map[string]string{FieldDocumentType: string(DocumentUtilityBill)}
	s.DocumentImage = nil
	s.LivenessPhoto = nil
	s.Geolocation = nil
	s.OCRResult = nil
	s.SocialAttesters = NewAttesters()
}

// Clone returns a copy safe to hand to readers outside the session lock.
// Images, plan entries and OCR line slices are treated as immutable and shared.
func (s *WorkflowState) Clone() *WorkflowState {
	c := *s
	c.CollectedFields = maps.Clone(s.CollectedFields)
	if s.Geolocation != nil {
		g := *s.Geolocation
		c.Geolocation = &g
	}
	if s.OCRResult != nil {
		o := *s.OCRResult
		c.OCRResult = &o
	}
	return &c
}

// NewAttesters returns the fixed pair of empty, pending attesters.
func NewAttesters() [AttesterCount]Attester {
	var out [AttesterCount]Attester
	for i := range out {
		out[i].Status = AttesterPending
	}
	return out
}

// TierDecision is the engine's externally visible result for a concluded
// session. ResultingTier is only meaningful when Outcome is Complete.
type TierDecision struct {
	SessionID     id.SessionID
	UserID        id.UserID
	PreviousTier  id.Tier
	TargetTier    id.Tier
	ResultingTier id.Tier
	DailyLimit    int64
	Method        VerificationMethod
	Outcome       Outcome
	Reason        FailureReason
	DecidedAt     time.Time
}

// DecisionFrom builds the decision for a terminal state.
func DecisionFrom(s *WorkflowState) TierDecision {
	resulting := s.CurrentTier
	if s.Outcome == OutcomeComplete {
		resulting = s.ResultingTier
	}
	return TierDecision{
		SessionID:     s.ID,
		UserID:        s.UserID,
		PreviousTier:  s.CurrentTier,
		TargetTier:    s.TargetTier,
		ResultingTier: resulting,
		DailyLimit:    resulting.DailyLimit(),
		Method:        s.Method,
		Outcome:       s.Outcome,
		Reason:        s.FailureReason,
		DecidedAt:     s.ResolvedAt,
	}
}
