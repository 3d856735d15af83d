package handler

import (
	"time"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

type StepResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

type ProgressResponse struct {
	Step    int `json:"step"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

type PositionResponse struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracy_meters"`
	CapturedAt     time.Time `json:"captured_at"`
}

type PositionRequestResponse struct {
	HighAccuracy  bool  `json:"high_accuracy"`
	TimeoutMS     int64 `json:"timeout_ms"`
	MaxCacheAgeMS int64 `json:"max_cache_age_ms"`
}

type OCRResponse struct {
	Confidence       int      `json:"confidence"`
	AddressLines     []string `json:"address_lines"`
	SuggestedAddress string   `json:"suggested_address"`
	LowConfidence    bool     `json:"low_confidence"`
}

type AttesterResponse struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Status       string `json:"status"`
}

type ImageResponse struct {
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	Digest      string    `json:"digest"`
	CapturedAt  time.Time `json:"captured_at"`
}

// SessionResponse is the client view of a verification session. Identity
// numbers are never echoed back; only whether they were provided.
type SessionResponse struct {
	ID          string           `json:"id"`
	CurrentTier int              `json:"current_tier"`
	TargetTier  int              `json:"target_tier"`
	Step        StepResponse     `json:"step"`
	Steps       []string         `json:"steps"`
	Progress    ProgressResponse `json:"progress"`
	CanAdvance  bool             `json:"can_advance"`

	Method       string `json:"method,omitempty"`
	MethodLocked bool   `json:"method_locked"`
	DocumentType string `json:"document_type,omitempty"`

	ProvidedFields  []string                 `json:"provided_fields"`
	Document        *ImageResponse           `json:"document,omitempty"`
	LivenessPhoto   *ImageResponse           `json:"liveness_photo,omitempty"`
	Geolocation     *PositionResponse        `json:"geolocation,omitempty"`
	PositionRequest *PositionRequestResponse `json:"position_request,omitempty"`
	OCR             *OCRResponse             `json:"ocr,omitempty"`
	SelectedAddress string                   `json:"selected_address,omitempty"`
	Attesters       []AttesterResponse       `json:"attesters,omitempty"`

	Outcome       string `json:"outcome"`
	Phase         string `json:"phase"`
	FailureReason string `json:"failure_reason,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Notice        string `json:"notice,omitempty"`
	ResultingTier *int   `json:"resulting_tier,omitempty"`
	DailyLimit    *int64 `json:"daily_limit,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ResolvedAt time.Time `json:"resolved_at,omitzero"`
}

func imageResponse(img *models.Image) *ImageResponse {
	if img == nil {
		return nil
	}
	return &ImageResponse{
		ContentType: img.ContentType,
		Size:        img.Size(),
		Digest:      img.Digest,
		CapturedAt:  img.CapturedAt,
	}
}

// FromState builds the client view. pending carries the options of a
// position the server is currently waiting for, if any.
func FromState(s *models.WorkflowState, pending *models.PositionOptions) *SessionResponse {
	step := s.CurrentStep()
	stepNo, total, percent := s.Progress()
	resp := &SessionResponse{
		ID:          s.ID.String(),
		CurrentTier: s.CurrentTier.Int(),
		TargetTier:  s.TargetTier.Int(),
		Step: StepResponse{
			ID:    string(step.ID),
			Kind:  string(step.Kind),
			Title: step.Title,
		},
		Steps:    make([]string, len(s.Plan)),
		Progress: ProgressResponse{Step: stepNo, Total: total, Percent: percent},
		CanAdvance: !s.Outcome.IsTerminal() &&
			s.Phase != models.PhaseAwaitingAttestation &&
			step.Satisfied(*s),
		ProvidedFields: []string{},
		Document:       imageResponse(s.DocumentImage),
		LivenessPhoto:  imageResponse(s.LivenessPhoto),
		Outcome:        string(s.Outcome),
		Phase:          string(s.Phase),
		FailureReason:  string(s.FailureReason),
		ErrorMessage:   s.ErrorMessage,
		Notice:         s.Notice,
		StartedAt:      s.StartedAt,
		UpdatedAt:      s.UpdatedAt,
		ResolvedAt:     s.ResolvedAt,
	}
	for i, st := range s.Plan {
		resp.Steps[i] = string(st.ID)
	}
	for _, f := range []string{models.FieldBVN, models.FieldNIN} {
		if s.Field(f) != "" {
			resp.ProvidedFields = append(resp.ProvidedFields, f)
		}
	}

	if s.TargetTier == id.Tier3 {
		resp.Method = string(s.Method)
		resp.MethodLocked = s.MethodLocked
		if s.Method == models.MethodDocument {
			resp.DocumentType = s.Field(models.FieldDocumentType)
			resp.SelectedAddress = s.Field(models.FieldSelectedAddress)
		} else {
			resp.Attesters = make([]AttesterResponse, len(s.SocialAttesters))
			for i, a := range s.SocialAttesters {
				resp.Attesters[i] = AttesterResponse{
					Name:         a.Name,
					Email:        a.Email,
					Phone:        a.Phone,
					Relationship: string(a.Relationship),
					Status:       string(a.Status),
				}
			}
		}
	}
	if g := s.Geolocation; g != nil {
		resp.Geolocation = &PositionResponse{
			Latitude:       g.Latitude,
			Longitude:      g.Longitude,
			AccuracyMeters: g.AccuracyMeters,
			CapturedAt:     g.CapturedAt,
		}
	}
	if pending != nil {
		resp.PositionRequest = &PositionRequestResponse{
			HighAccuracy:  pending.HighAccuracy,
			TimeoutMS:     pending.Timeout.Milliseconds(),
			MaxCacheAgeMS: pending.MaxCacheAge.Milliseconds(),
		}
	}
	if o := s.OCRResult; o != nil {
		resp.OCR = &OCRResponse{
			Confidence:       o.Confidence,
			AddressLines:     o.AddressLines,
			SuggestedAddress: o.SuggestedAddress,
			LowConfidence:    o.LowConfidence,
		}
	}
	if s.Outcome == models.OutcomeComplete {
		tier := s.ResultingTier.Int()
		limit := s.ResultingTier.DailyLimit()
		resp.ResultingTier = &tier
		resp.DailyLimit = &limit
	}
	return resp
}

// TierResponse describes one tier of the limits table.
type TierResponse struct {
	Tier       int      `json:"tier"`
	Name       string   `json:"name"`
	DailyLimit int64    `json:"daily_limit"`
	Benefits   []string `json:"benefits"`
	Current    bool     `json:"current"`
}

// AttestationResponse is what an attester sees when opening their link. It
// names the relationship but never the user's collected evidence.
type AttestationResponse struct {
	ID           string    `json:"id"`
	AttesterName string    `json:"attester_name"`
	Relationship string    `json:"relationship"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	RespondedAt  time.Time `json:"responded_at,omitzero"`
}

func FromAttestation(r *attestation.Request) *AttestationResponse {
	return &AttestationResponse{
		ID:           r.ID.String(),
		AttesterName: r.Name,
		Relationship: string(r.Relationship),
		Status:       string(r.Status),
		ExpiresAt:    r.ExpiresAt,
		RespondedAt:  r.RespondedAt,
	}
}
