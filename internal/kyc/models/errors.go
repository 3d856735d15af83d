package models

import (
	"errors"
	"fmt"

	dErrors "suresavings/pkg/domain-errors"
)

// Local-contract violations, reported synchronously to the immediate caller.
var (
	ErrUnknownTier           = dErrors.New(dErrors.CodeInvalidInput, "unknown tier")
	ErrInvalidTierTransition = dErrors.New(dErrors.CodeBadRequest, "target tier must be above the current tier and within 1..3")
	ErrStepGate              = dErrors.New(dErrors.CodeValidation, "current step requirements are not met")
	ErrTerminalState         = dErrors.New(dErrors.CodeConflict, "verification session has already concluded")
	ErrAwaitingAttestation   = dErrors.New(dErrors.CodeConflict, "verification session is awaiting attester responses")
	ErrMethodLocked          = dErrors.New(dErrors.CodeConflict, "verification method is fixed for this session; restart to change it")
	ErrMethodNotApplicable   = dErrors.New(dErrors.CodeBadRequest, "verification method only applies to tier 3")
	ErrSessionExists         = dErrors.New(dErrors.CodeConflict, "an active verification session already exists")
	ErrSessionNotFound       = dErrors.New(dErrors.CodeNotFound, "verification session not found")
	ErrNotAwaiting           = dErrors.New(dErrors.CodeConflict, "verification session is not awaiting attester responses")
	ErrUnknownAttestation    = dErrors.New(dErrors.CodeNotFound, "attestation request not found")
	ErrUnknownField          = dErrors.New(dErrors.CodeBadRequest, "unknown field")
	ErrWrongStep             = dErrors.New(dErrors.CodeBadRequest, "operation is not available on the current step")
	ErrInvalidAttester       = dErrors.New(dErrors.CodeValidation, "invalid attester")
	ErrAddressNotOffered     = dErrors.New(dErrors.CodeValidation, "address was not extracted from the document")
	ErrInvalidDocumentType   = dErrors.New(dErrors.CodeValidation, "unsupported document type")
)

// CaptureError reports that raw evidence could not be acquired or was unusable.
type CaptureError struct {
	Source string
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Source, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// NewCaptureError builds a CaptureError carrying a validation code so the
// transport layer can report it as a user fixable problem.
func NewCaptureError(source, msg string) error {
	return dErrors.Wrap(&CaptureError{Source: source, Err: errors.New(msg)}, dErrors.CodeValidation, msg)
}

// OCRError reports a document OCR failure.
type OCRError struct {
	Err error
}

func (e *OCRError) Error() string { return fmt.Sprintf("ocr extraction failed: %v", e.Err) }
func (e *OCRError) Unwrap() error { return e.Err }

// ProximityError reports an address proximity check failure.
type ProximityError struct {
	Err error
}

func (e *ProximityError) Error() string { return fmt.Sprintf("proximity check failed: %v", e.Err) }
func (e *ProximityError) Unwrap() error { return e.Err }

// ErrorCategory is the normalized identity provider failure taxonomy.
type ErrorCategory string

const (
	ErrorTimeout          ErrorCategory = "timeout"
	ErrorBadData          ErrorCategory = "bad_data"
	ErrorAuthentication   ErrorCategory = "authentication"
	ErrorProviderOutage   ErrorCategory = "provider_outage"
	ErrorRateLimited      ErrorCategory = "rate_limited"
	ErrorContractMismatch ErrorCategory = "contract_mismatch"
	ErrorInternal         ErrorCategory = "internal"
)

// ProviderError wraps identity provider failures with a normalized category.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }

// NewProviderError creates a categorized provider error.
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// ProviderCategory extracts the category from an error, defaulting to internal.
func ProviderCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}
