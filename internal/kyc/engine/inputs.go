package engine

import (
	"context"
	"fmt"
	"strings"

	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/plan"
	id "suresavings/pkg/domain"
	"suresavings/pkg/email"
)

// editableFields are the free-form fields a user may set directly.
var editableFields = map[string]struct{}{
	models.FieldBVN: {},
	models.FieldNIN: {},
}

func checkEditable(state *models.WorkflowState) error {
	if state.Outcome.IsTerminal() {
		return models.ErrTerminalState
	}
	if state.Phase == models.PhaseAwaitingAttestation {
		return models.ErrAwaitingAttestation
	}
	return nil
}

// SetField records a collected identifier. Values are not validated here;
// the step predicate decides whether they are good enough to advance.
func (e *Engine) SetField(state *models.WorkflowState, name, value string) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if _, ok := editableFields[name]; !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownField, name)
	}
	state.CollectedFields[name] = strings.TrimSpace(value)
	state.UpdatedAt = e.now()
	return nil
}

// SetFields records several identifiers at once. Every name is checked
// before any value is written, so a rejected batch leaves the state as it was.
func (e *Engine) SetFields(state *models.WorkflowState, fields map[string]string) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	for name := range fields {
		if _, ok := editableFields[name]; !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownField, name)
		}
	}
	for name, value := range fields {
		state.CollectedFields[name] = strings.TrimSpace(value)
	}
	if len(fields) > 0 {
		state.UpdatedAt = e.now()
	}
	return nil
}

// SelectMethod chooses the tier 3 verification method and rebuilds the
// remaining plan. The method is fixed once the user advances past the method
// step.
func (e *Engine) SelectMethod(state *models.WorkflowState, method models.VerificationMethod) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if state.TargetTier != id.Tier3 {
		return models.ErrMethodNotApplicable
	}
	if _, ok := models.ParseVerificationMethod(string(method)); !ok {
		return fmt.Errorf("%w: %q", models.ErrMethodNotApplicable, method)
	}
	if state.MethodLocked {
		if method == state.Method {
			return nil
		}
		return models.ErrMethodLocked
	}

	steps, err := plan.PlanFor(state.TargetTier, method)
	if err != nil {
		return err
	}
	state.Method = method
	state.Plan = steps
	state.UpdatedAt = e.now()
	return nil
}

// SelectDocumentType records the proof-of-address document kind.
func (e *Engine) SelectDocumentType(state *models.WorkflowState, docType models.DocumentType) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if !docType.IsValid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidDocumentType, docType)
	}
	state.CollectedFields[models.FieldDocumentType] = string(docType)
	state.UpdatedAt = e.now()
	return nil
}

// AttachDocument stores the uploaded document. Any OCR result derived from a
// previous upload is dropped; extraction runs again on advance.
func (e *Engine) AttachDocument(state *models.WorkflowState, image *models.Image) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if image.Size() == 0 || image.Kind != models.ImageKindDocument {
		return models.NewCaptureError(string(models.ImageKindDocument), "a document image is required")
	}
	state.DocumentImage = image
	state.OCRResult = nil
	delete(state.CollectedFields, models.FieldSelectedAddress)
	state.ErrorMessage = ""
	state.UpdatedAt = e.now()
	return nil
}

// AttachLiveness stores the liveness photo.
func (e *Engine) AttachLiveness(state *models.WorkflowState, image *models.Image) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if image.Size() == 0 || image.Kind != models.ImageKindLiveness {
		return models.NewCaptureError(string(models.ImageKindLiveness), "a liveness photo is required")
	}
	state.LivenessPhoto = image
	state.UpdatedAt = e.now()
	return nil
}

// SetAttester fills one of the two attester slots. Partial entries are
// accepted; the social attestation step only opens once both are complete.
func (e *Engine) SetAttester(state *models.WorkflowState, index int, attester models.Attester) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if index < 0 || index >= models.AttesterCount {
		return fmt.Errorf("%w: index %d out of range", models.ErrInvalidAttester, index)
	}
	attester.Name = strings.TrimSpace(attester.Name)
	attester.Email = strings.TrimSpace(attester.Email)
	attester.Phone = strings.TrimSpace(attester.Phone)
	if attester.Relationship != "" && !attester.Relationship.IsValid() {
		return fmt.Errorf("%w: relationship %q", models.ErrInvalidAttester, attester.Relationship)
	}
	if attester.Email != "" {
		normalized, ok := email.Normalize(attester.Email)
		if !ok {
			return fmt.Errorf("%w: email %q", models.ErrInvalidAttester, attester.Email)
		}
		attester.Email = normalized
		for i, other := range state.SocialAttesters {
			if i != index && email.Same(other.Email, normalized) {
				return fmt.Errorf("%w: both attesters use %s", models.ErrInvalidAttester, normalized)
			}
		}
	}
	attester.Status = models.AttesterPending
	attester.RequestID = id.AttestationID{}
	state.SocialAttesters[index] = attester
	state.UpdatedAt = e.now()
	return nil
}

// SelectAddress confirms one of the addresses read from the document.
func (e *Engine) SelectAddress(state *models.WorkflowState, address string) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if state.OCRResult == nil {
		return models.ErrAddressNotOffered
	}
	address = strings.TrimSpace(address)
	offered := address == state.OCRResult.SuggestedAddress
	for _, line := range state.OCRResult.AddressLines {
		if address == line {
			offered = true
			break
		}
	}
	if !offered || address == "" {
		return models.ErrAddressNotOffered
	}
	state.CollectedFields[models.FieldSelectedAddress] = address
	state.UpdatedAt = e.now()
	return nil
}

// RetryGeolocation re-runs position capture while on the geolocation step.
func (e *Engine) RetryGeolocation(ctx context.Context, state *models.WorkflowState) error {
	if err := checkEditable(state); err != nil {
		return err
	}
	if state.CurrentStep().ID != models.StepGeolocationCheck {
		return fmt.Errorf("%w: %s", models.ErrWrongStep, state.CurrentStep().ID)
	}
	e.capturePosition(ctx, state)
	state.UpdatedAt = e.now()
	return nil
}
