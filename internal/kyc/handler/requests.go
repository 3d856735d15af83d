package handler

import (
	"math"
	"strings"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	dErrors "suresavings/pkg/domain-errors"
)

// StartSessionRequest is the body of POST /kyc/sessions.
type StartSessionRequest struct {
	TargetTier *int `json:"target_tier"`
}

func (r *StartSessionRequest) Validate() error {
	if r == nil || r.TargetTier == nil {
		return dErrors.New(dErrors.CodeValidation, "target_tier is required")
	}
	return nil
}

func (r *StartSessionRequest) Target() id.Tier {
	return id.Tier(*r.TargetTier)
}

// SetFieldsRequest is the body of PUT /kyc/sessions/{sessionID}/fields.
type SetFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}

func (r *SetFieldsRequest) Validate() error {
	if r == nil || len(r.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "fields must not be empty")
	}
	for name, value := range r.Fields {
		if len(value) > 64 {
			return dErrors.New(dErrors.CodeValidation, name+" must be at most 64 characters")
		}
		r.Fields[name] = strings.TrimSpace(value)
	}
	return nil
}

type SelectMethodRequest struct {
	Method string `json:"method"`

	parsed models.VerificationMethod
}

func (r *SelectMethodRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	method, ok := models.ParseVerificationMethod(r.Method)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "method must be one of: document, social")
	}
	r.parsed = method
	return nil
}

func (r *SelectMethodRequest) ParsedMethod() models.VerificationMethod {
	return r.parsed
}

type SelectDocumentTypeRequest struct {
	DocumentType string `json:"document_type"`
}

func (r *SelectDocumentTypeRequest) Validate() error {
	if r == nil || r.DocumentType == "" {
		return dErrors.New(dErrors.CodeValidation, "document_type is required")
	}
	return nil
}

type SelectAddressRequest struct {
	Address string `json:"address"`
}

func (r *SelectAddressRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Address = strings.TrimSpace(r.Address)
	if r.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	return nil
}

// AttesterRequest is the body of PUT /kyc/sessions/{sessionID}/attesters/{index}.
type AttesterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

func (r *AttesterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Name) > 200 || len(r.Email) > 254 || len(r.Phone) > 32 {
		return dErrors.New(dErrors.CodeValidation, "attester details are too long")
	}
	return nil
}

func (r *AttesterRequest) Attester() models.Attester {
	return models.Attester{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Relationship: models.Relationship(r.Relationship),
	}
}

// PositionRequest is a device-reported geolocation fix.
type PositionRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccuracyMeters float64  `json:"accuracy_meters"`
}

func (r *PositionRequest) Validate() error {
	if r == nil || r.Latitude == nil || r.Longitude == nil {
		return dErrors.New(dErrors.CodeValidation, "latitude and longitude are required")
	}
	if math.IsNaN(r.AccuracyMeters) || r.AccuracyMeters < 0 {
		return dErrors.New(dErrors.CodeValidation, "accuracy_meters must not be negative")
	}
	return nil
}

// AttestationAnswerRequest is the body of POST /attestations/{requestID}/response.
type AttestationAnswerRequest struct {
	Confirmed *bool `json:"confirmed"`
}

func (r *AttestationAnswerRequest) Validate() error {
	if r == nil || r.Confirmed == nil {
		return dErrors.New(dErrors.CodeValidation, "confirmed is required")
	}
	return nil
}
