// Package plan is the tier step plan registry: for each target tier, the
// ordered steps of the verification workflow and the predicate gating each one.
package plan

import (
	"fmt"
	"strings"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// identifierLength is the digit count of both BVN and NIN.
const identifierLength = 11

var (
	bvnIntro      = step(models.StepBVNIntro, models.StepKindIntro, "BVN Verification", nil)
	bvnInput      = step(models.StepBVNInput, models.StepKindInput, "Enter BVN", hasIdentifier(models.FieldBVN))
	livenessPhoto = step(models.StepLivenessPhoto, models.StepKindCapture, "Take Photo", hasLivenessPhoto)
	bvnProcessing = step(models.StepBVNProcessing, models.StepKindProcessing, "Verification", nil)

	ninIntro      = step(models.StepNINIntro, models.StepKindIntro, "NIN Verification", nil)
	ninInput      = step(models.StepNINInput, models.StepKindInput, "Enter NIN", hasIdentifier(models.FieldNIN))
	ninProcessing = step(models.StepNINProcessing, models.StepKindProcessing, "Verification", nil)

	addressIntro       = step(models.StepAddressIntro, models.StepKindIntro, "Address Verification", nil)
	verificationMethod = step(models.StepVerificationMethod, models.StepKindInput, "Verification Method", hasMethod)
	documentType       = step(models.StepDocumentType, models.StepKindInput, "Document Type", hasDocumentType)
	documentUpload     = step(models.StepDocumentUpload, models.StepKindCapture, "Upload Document", hasDocumentImage)
	geolocationCheck   = step(models.StepGeolocationCheck, models.StepKindCapture, "Location Verification", nil)
	addressSelection   = step(models.StepAddressSelection, models.StepKindInput, "Select Address", nil)
	socialAttestation  = step(models.StepSocialAttestation, models.StepKindInput, "Social Attestation", hasAttesters)
	addressProcessing  = step(models.StepAddressProcessing, models.StepKindProcessing, "Verification", nil)
)

var (
	tierOne = []models.StepDefinition{bvnIntro, bvnInput, livenessPhoto, bvnProcessing}
	tierTwo = []models.StepDefinition{ninIntro, ninInput, ninProcessing}

	tierThreeDocument = []models.StepDefinition{
		addressIntro, verificationMethod,
		documentType, documentUpload, geolocationCheck, addressSelection,
		addressProcessing,
	}
	tierThreeSocial = []models.StepDefinition{
		addressIntro, verificationMethod,
		socialAttestation,
		addressProcessing,
	}
)

// GetPlan returns the step plan for a target tier. Tier 3 resolves to the
// document path, the default verification method.
func GetPlan(target id.Tier) ([]models.StepDefinition, error) {
	return PlanFor(target, models.MethodDocument)
}

// PlanFor returns the step plan for a target tier and verification method.
// The method only affects tier 3.
func PlanFor(target id.Tier, method models.VerificationMethod) ([]models.StepDefinition, error) {
	switch target {
	case id.Tier1:
		return clone(tierOne), nil
	case id.Tier2:
		return clone(tierTwo), nil
	case id.Tier3:
		if method == models.MethodSocial {
			return clone(tierThreeSocial), nil
		}
		return clone(tierThreeDocument), nil
	default:
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownTier, target.Int())
	}
}

// StepIDs lists the IDs of a plan in order.
func StepIDs(steps []models.StepDefinition) []models.StepID {
	out := make([]models.StepID, len(steps))
	for i, s := range steps {
		out[i] = s.ID
	}
	return out
}

func step(stepID models.StepID, kind models.StepKind, title string, required models.Predicate) models.StepDefinition {
	return models.StepDefinition{ID: stepID, Kind: kind, Title: title, Required: required}
}

func clone(steps []models.StepDefinition) []models.StepDefinition {
	return append([]models.StepDefinition(nil), steps...)
}

// -----------------------------------------------------------------------------
// Predicates
// -----------------------------------------------------------------------------

func hasIdentifier(field string) models.Predicate {
	return func(s models.WorkflowState) bool {
		return IsIdentifier(s.CollectedFields[field])
	}
}

// IsIdentifier reports whether v is an 11 digit BVN/NIN.
func IsIdentifier(v string) bool {
	if len(v) != identifierLength {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasLivenessPhoto(s models.WorkflowState) bool {
	return s.LivenessPhoto.Size() > 0
}

func hasDocumentImage(s models.WorkflowState) bool {
	return s.DocumentImage.Size() > 0
}

func hasMethod(s models.WorkflowState) bool {
	_, ok := models.ParseVerificationMethod(string(s.Method))
	return ok
}

func hasDocumentType(s models.WorkflowState) bool {
	return models.DocumentType(s.CollectedFields[models.FieldDocumentType]).IsValid()
}

func hasAttesters(s models.WorkflowState) bool {
	for _, a := range s.SocialAttesters {
		if strings.TrimSpace(a.Name) == "" ||
			strings.TrimSpace(a.Email) == "" ||
			strings.TrimSpace(string(a.Relationship)) == "" {
			return false
		}
	}
	return true
}
