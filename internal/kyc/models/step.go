package models

// StepKind tags what a step asks of the user. Rendering layers switch on the
// kind and step ID; the engine only cares about the predicate.
type StepKind string

const (
	StepKindIntro      StepKind = "intro"
	StepKindInput      StepKind = "input"
	StepKindCapture    StepKind = "capture"
	StepKindProcessing StepKind = "processing"
)

// StepID identifies a step within a tier plan.
type StepID string

const (
	StepBVNIntro      StepID = "bvn-intro"
	StepBVNInput      StepID = "bvn-input"
	StepLivenessPhoto StepID = "liveness-photo"
	StepBVNProcessing StepID = "bvn-processing"

	StepNINIntro      StepID = "nin-intro"
	StepNINInput      StepID = "nin-input"
	StepNINProcessing StepID = "nin-processing"

	StepAddressIntro       StepID = "address-intro"
	StepVerificationMethod StepID = "verification-method"
	StepDocumentType       StepID = "document-type"
	StepDocumentUpload     StepID = "document-upload"
	StepGeolocationCheck   StepID = "geolocation-check"
	StepAddressSelection   StepID = "address-selection"
	StepSocialAttestation  StepID = "social-attestation"
	StepAddressProcessing  StepID = "address-processing"
)

// Predicate gates advancing past a step. It must be pure: it receives a copy
// of the state header and may not mutate maps or evidence reachable from it.
type Predicate func(WorkflowState) bool

// StepDefinition is one entry of a tier plan.
type StepDefinition struct {
	ID       StepID
	Kind     StepKind
	Title    string
	Required Predicate
}

// Satisfied evaluates the step predicate. A step without a predicate is
// always satisfied.
func (d StepDefinition) Satisfied(state WorkflowState) bool {
	if d.Required == nil {
		return true
	}
	return d.Required(state)
}
