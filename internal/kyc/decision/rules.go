package decision

import (
	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// Evidence is everything the resolver gathered for a submission. It is plain
// data so the rules below stay free of I/O.
type Evidence struct {
	TargetTier id.Tier
	Method     models.VerificationMethod

	// Tier 1/2
	Provider    models.ProviderVerdict
	ProviderErr error

	// Tier 3 document
	HasGeolocation bool
	HasOCR         bool
	ProximityMatch bool
	ProximityErr   error

	// Tier 3 social
	IssueErr  error
	Attesters [models.AttesterCount]models.AttesterStatus
}

// Verdict is the outcome of evaluating evidence. Awaiting is only set while
// the outcome is still in progress on the social path.
type Verdict struct {
	Outcome  models.Outcome
	Reason   models.FailureReason
	Awaiting bool
}

func complete() Verdict {
	return Verdict{Outcome: models.OutcomeComplete}
}

func failed(reason models.FailureReason) Verdict {
	return Verdict{Outcome: models.OutcomeFailed, Reason: reason}
}

// Evaluate applies the tier and method specific rules to produce a verdict.
// This is pure domain logic: no I/O, no side effects.
func Evaluate(ev Evidence) Verdict {
	if ev.TargetTier != id.Tier3 {
		return evaluateIdentity(ev)
	}
	if ev.Method == models.MethodSocial {
		if ev.IssueErr != nil {
			return failed(models.ReasonAttestationUnavailable)
		}
		return EvaluateAttestations(ev.Attesters)
	}
	return evaluateDocumentAddress(ev)
}

// evaluateIdentity maps the provider answer 1:1 onto the outcome. A failed
// provider call is treated the same as a rejection.
func evaluateIdentity(ev Evidence) Verdict {
	if ev.ProviderErr != nil || !ev.Provider.Approved {
		return failed(models.ReasonProviderRejected)
	}
	return complete()
}

// evaluateDocumentAddress applies the document path rule chain (fail-fast):
//  1. both geolocation and OCR evidence must exist
//  2. the proximity verifier must have answered
//  3. the answer must be a match
func evaluateDocumentAddress(ev Evidence) Verdict {
	if !ev.HasGeolocation || !ev.HasOCR {
		return failed(models.ReasonMissingEvidence)
	}
	if ev.ProximityErr != nil {
		return failed(models.ReasonProximityUnavailable)
	}
	if !ev.ProximityMatch {
		return failed(models.ReasonAddressMismatch)
	}
	return complete()
}

// EvaluateAttestations resolves the social path from attester statuses. Any
// decline fails; all confirmed completes; otherwise the session keeps waiting.
func EvaluateAttestations(statuses [models.AttesterCount]models.AttesterStatus) Verdict {
	confirmed := 0
	for _, s := range statuses {
		switch s {
		case models.AttesterDeclined:
			return failed(models.ReasonAttestationDeclined)
		case models.AttesterConfirmed:
			confirmed++
		}
	}
	if confirmed == len(statuses) {
		return complete()
	}
	return Verdict{Outcome: models.OutcomeInProgress, Awaiting: true}
}
