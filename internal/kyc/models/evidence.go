package models

import (
	"time"

	id "suresavings/pkg/domain"
)

// ImageKind distinguishes the two binary evidence payloads.
type ImageKind string

const (
	ImageKindDocument ImageKind = "document"
	ImageKindLiveness ImageKind = "liveness"
)

// Image is an opaque binary evidence handle. It is immutable once captured.
type Image struct {
	Kind        ImageKind
	ContentType string
	Data        []byte
	Digest      string // hex SHA-256 of Data
	Device      string
	CapturedAt  time.Time
}

// Size returns the payload length in bytes.
func (i *Image) Size() int {
	if i == nil {
		return 0
	}
	return len(i.Data)
}

// Position is a geolocation fix.
type Position struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	CapturedAt     time.Time
}

// PositionOptions configures a position acquisition.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxCacheAge  time.Duration
}

// OCRResult is the document OCR output. Confidence is 0..100.
type OCRResult struct {
	ExtractedText    string
	Confidence       int
	AddressLines     []string
	SuggestedAddress string
	LowConfidence    bool
}

// VerificationMethod selects the tier 3 address verification path.
type VerificationMethod string

const (
	MethodDocument VerificationMethod = "document"
	MethodSocial   VerificationMethod = "social"
)

// ParseVerificationMethod validates a method name.
func ParseVerificationMethod(s string) (VerificationMethod, bool) {
	switch m := VerificationMethod(s); m {
	case MethodDocument, MethodSocial:
		return m, true
	}
	return "", false
}

// DocumentType is the proof-of-address document the user uploads.
type DocumentType string

const (
	DocumentUtilityBill    DocumentType = "utility_bill"
	DocumentDriversLicense DocumentType = "drivers_license"
	DocumentPassport       DocumentType = "passport"
	DocumentBankStatement  DocumentType = "bank_statement"
)

// IsValid reports whether the document type is accepted.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocumentUtilityBill, DocumentDriversLicense, DocumentPassport, DocumentBankStatement:
		return true
	}
	return false
}

// Relationship is how an attester knows the user.
type Relationship string

const (
	RelationshipFamily    Relationship = "family"
	RelationshipFriend    Relationship = "friend"
	RelationshipColleague Relationship = "colleague"
	RelationshipNeighbor  Relationship = "neighbor"
	RelationshipOther     Relationship = "other"
)

// IsValid reports whether the relationship is one of the accepted values.
func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipFamily, RelationshipFriend, RelationshipColleague, RelationshipNeighbor, RelationshipOther:
		return true
	}
	return false
}

// AttesterStatus tracks an attester's response.
type AttesterStatus string

const (
	AttesterPending   AttesterStatus = "pending"
	AttesterConfirmed AttesterStatus = "confirmed"
	AttesterDeclined  AttesterStatus = "declined"
)

// IsFinal reports whether the attester has responded.
func (s AttesterStatus) IsFinal() bool {
	return s == AttesterConfirmed || s == AttesterDeclined
}

// AttesterCount is the fixed number of attesters a social attestation needs.
const AttesterCount = 2

// Attester is a third party asked to confirm the user's address.
type Attester struct {
	Name         string
	Email        string
	Phone        string
	Relationship Relationship
	Status       AttesterStatus
	RequestID    id.AttestationID
}

// IdentityEvidence is what the identity provider receives for tier 1/2.
type IdentityEvidence struct {
	UserID        id.UserID
	BVN           string
	NIN           string
	LivenessPhoto *Image
}

// ProviderVerdict is the identity provider's answer.
type ProviderVerdict struct {
	Approved  bool
	Reference string
	Reason    string
}

// AttestationRequest asks the coordinator to contact both attesters.
type AttestationRequest struct {
	SessionID id.SessionID
	UserID    id.UserID
	Attesters []Attester
}

// AttestationResponse is the coordinator callback for one attester.
type AttestationResponse struct {
	RequestID   id.AttestationID
	SessionID   id.SessionID
	Status      AttesterStatus
	RespondedAt time.Time
}
