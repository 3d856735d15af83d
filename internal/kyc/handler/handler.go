// Package handler exposes the verification workflow over HTTP.
package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	dErrors "suresavings/pkg/domain-errors"
	"suresavings/pkg/platform/httputil"
	"suresavings/pkg/requestcontext"
)

// SessionService is the session manager as seen by the transport.
type SessionService interface {
	Start(ctx context.Context, userID id.UserID, current, target id.Tier) (*models.WorkflowState, error)
	Active(ctx context.Context, userID id.UserID) (*models.WorkflowState, error)
	Get(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)
	Authorize(userID id.UserID, sessionID id.SessionID) error
	Close(ctx context.Context, userID id.UserID, sessionID id.SessionID) error

	Advance(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)
	Retreat(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)
	Restart(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)

	SetFields(ctx context.Context, userID id.UserID, sessionID id.SessionID, fields map[string]string) (*models.WorkflowState, error)
	SelectMethod(ctx context.Context, userID id.UserID, sessionID id.SessionID, method models.VerificationMethod) (*models.WorkflowState, error)
	SelectDocumentType(ctx context.Context, userID id.UserID, sessionID id.SessionID, docType models.DocumentType) (*models.WorkflowState, error)
	AttachDocument(ctx context.Context, userID id.UserID, sessionID id.SessionID, image *models.Image) (*models.WorkflowState, error)
	AttachLiveness(ctx context.Context, userID id.UserID, sessionID id.SessionID, image *models.Image) (*models.WorkflowState, error)
	SetAttester(ctx context.Context, userID id.UserID, sessionID id.SessionID, index int, attester models.Attester) (*models.WorkflowState, error)
	SelectAddress(ctx context.Context, userID id.UserID, sessionID id.SessionID, address string) (*models.WorkflowState, error)
	RetryGeolocation(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)
}

// ImageCapturer validates uploaded evidence images.
type ImageCapturer interface {
	Capture(ctx context.Context, kind models.ImageKind, r io.Reader) (*models.Image, error)
}

// PositionReporter accepts device fixes and tells clients when one is awaited.
type PositionReporter interface {
	Report(sessionID id.SessionID, fix models.Position) error
	Requested(sessionID id.SessionID) (models.PositionOptions, bool)
}

// AttestationService serves the attester facing endpoints.
type AttestationService interface {
	Get(ctx context.Context, requestID id.AttestationID) (*attestation.Request, error)
	Respond(ctx context.Context, requestID id.AttestationID, confirmed bool) (*attestation.Request, error)
}

// Handler wires the verification endpoints to the session manager.
type Handler struct {
	sessions     SessionService
	images       ImageCapturer
	positions    PositionReporter
	attestations AttestationService
	logger       *slog.Logger
}

func New(sessions SessionService, images ImageCapturer, positions PositionReporter, attestations AttestationService, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:     sessions,
		images:       images,
		positions:    positions,
		attestations: attestations,
		logger:       logger,
	}
}

// Register mounts the authenticated user endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/kyc/tiers", h.HandleListTiers)

	r.Post("/kyc/sessions", h.HandleStart)
	r.Get("/kyc/sessions/current", h.HandleCurrent)
	r.Route("/kyc/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleClose)

		r.Post("/advance", h.HandleAdvance)
		r.Post("/retreat", h.HandleRetreat)
		r.Post("/restart", h.HandleRestart)

		r.Put("/fields", h.HandleSetFields)
		r.Put("/method", h.HandleSelectMethod)
		r.Put("/document-type", h.HandleSelectDocumentType)
		r.Put("/address", h.HandleSelectAddress)
		r.Put("/attesters/{index}", h.HandleSetAttester)

		r.Post("/document", h.HandleUploadDocument)
		r.Post("/liveness", h.HandleUploadLiveness)
		r.Post("/position", h.HandleReportPosition)
		r.Post("/geolocation/retry", h.HandleRetryGeolocation)
	})
}

// RegisterPublic mounts the attester endpoints, reached through the link in
// the attestation request rather than a user session.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/attestations/{requestID}", h.HandleGetAttestation)
	r.Post("/attestations/{requestID}/response", h.HandleRespondAttestation)
}

// HandleListTiers handles GET /kyc/tiers.
func (h *Handler) HandleListTiers(w http.ResponseWriter, r *http.Request) {
	current := requestcontext.CurrentTier(r.Context())
	tiers := make([]TierResponse, 0, id.MaxTier.Int()+1)
	for t := id.Tier0; t <= id.MaxTier; t++ {
		tiers = append(tiers, TierResponse{
			Tier:       t.Int(),
			Name:       t.String(),
			DailyLimit: t.DailyLimit(),
			Benefits:   t.Benefits(),
			Current:    t == current,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tiers": tiers})
}

// HandleStart handles POST /kyc/sessions.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[StartSessionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	current := requestcontext.CurrentTier(ctx)
	state, err := h.sessions.Start(ctx, userID, current, req.Target())
	if err != nil {
		h.fail(w, r, "failed to start verification session", err)
		return
	}
	h.logger.InfoContext(ctx, "verification session started",
		"request_id", requestcontext.RequestID(ctx),
		"session_id", state.ID.String(),
		"current_tier", current.Int(),
		"target_tier", state.TargetTier.Int(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromState(state, nil))
}

// HandleCurrent handles GET /kyc/sessions/current.
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	state, err := h.sessions.Active(r.Context(), userID)
	h.respond(w, r, state, err)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.sessions.Get)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Close(r.Context(), userID, sessionID); err != nil {
		h.fail(w, r, "failed to close verification session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.sessions.Advance)
}

func (h *Handler) HandleRetreat(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.sessions.Retreat)
}

func (h *Handler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.sessions.Restart)
}

func (h *Handler) HandleRetryGeolocation(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, h.sessions.RetryGeolocation)
}

func (h *Handler) HandleSetFields(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(ctx context.Context, userID id.UserID, sessionID id.SessionID, req *SetFieldsRequest) (*models.WorkflowState, error) {
		return h.sessions.SetFields(ctx, userID, sessionID, req.Fields)
	})
}

func (h *Handler) HandleSelectMethod(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(ctx context.Context, userID id.UserID, sessionID id.SessionID, req *SelectMethodRequest) (*models.WorkflowState, error) {
		return h.sessions.SelectMethod(ctx, userID, sessionID, req.ParsedMethod())
	})
}

func (h *Handler) HandleSelectDocumentType(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(ctx context.Context, userID id.UserID, sessionID id.SessionID, req *SelectDocumentTypeRequest) (*models.WorkflowState, error) {
		return h.sessions.SelectDocumentType(ctx, userID, sessionID, models.DocumentType(req.DocumentType))
	})
}

func (h *Handler) HandleSelectAddress(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(ctx context.Context, userID id.UserID, sessionID id.SessionID, req *SelectAddressRequest) (*models.WorkflowState, error) {
		return h.sessions.SelectAddress(ctx, userID, sessionID, req.Address)
	})
}

func (h *Handler) HandleSetAttester(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "attester index must be a number"))
		return
	}
	withBody(h, w, r, func(ctx context.Context, userID id.UserID, sessionID id.SessionID, req *AttesterRequest) (*models.WorkflowState, error) {
		return h.sessions.SetAttester(ctx, userID, sessionID, index, req.Attester())
	})
}

// HandleUploadDocument handles POST /kyc/sessions/{sessionID}/document.
// OCR runs when the user advances past the upload step, not here.
func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.ImageKindDocument, h.sessions.AttachDocument)
}

func (h *Handler) HandleUploadLiveness(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, models.ImageKindLiveness, h.sessions.AttachLiveness)
}

// HandleReportPosition handles POST /kyc/sessions/{sessionID}/position. It
// does not touch the session itself, so a fix can be delivered while an
// advance into the geolocation step is waiting for it.
func (h *Handler) HandleReportPosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Authorize(userID, sessionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PositionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	fix := models.Position{
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		CapturedAt:     requestcontext.Now(ctx),
	}
	if err := h.positions.Report(sessionID, fix); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleGetAttestation handles GET /attestations/{requestID}.
func (h *Handler) HandleGetAttestation(w http.ResponseWriter, r *http.Request) {
	requestID, err := id.ParseAttestationID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, err := h.attestations.Get(r.Context(), requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAttestation(req))
}

// HandleRespondAttestation handles POST /attestations/{requestID}/response.
func (h *Handler) HandleRespondAttestation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, err := id.ParseAttestationID(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeAndPrepare[AttestationAnswerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	req, err := h.attestations.Respond(ctx, requestID, *body.Confirmed)
	if err != nil {
		h.fail(w, r, "failed to record attestation response", err)
		return
	}
	h.logger.InfoContext(ctx, "attestation answered",
		"request_id", requestcontext.RequestID(ctx),
		"attestation_id", requestID.String(),
		"status", string(req.Status),
	)
	httputil.WriteJSON(w, http.StatusOK, FromAttestation(req))
}

type sessionOp func(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error)

type imageOp func(ctx context.Context, userID id.UserID, sessionID id.SessionID, image *models.Image) (*models.WorkflowState, error)

func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, op sessionOp) {
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	state, err := op(r.Context(), userID, sessionID)
	h.respond(w, r, state, err)
}

func withBody[T any, PT interface {
	*T
	httputil.Validatable
}](h *Handler, w http.ResponseWriter, r *http.Request, op func(context.Context, id.UserID, id.SessionID, PT) (*models.WorkflowState, error)) {
	ctx := r.Context()
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[T, PT](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	state, err := op(ctx, userID, sessionID, req)
	h.respond(w, r, state, err)
}

// upload accepts either a multipart form with an "image" part or a raw
// image body.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request, kind models.ImageKind, attach imageOp) {
	ctx := r.Context()
	userID, sessionID, ok := h.sessionParams(w, r)
	if !ok {
		return
	}

	body := io.Reader(r.Body)
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("image")
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "multipart upload must contain an image part"))
			return
		}
		defer file.Close()
		body = file
	}

	image, err := h.images.Capture(ctx, kind, body)
	if err != nil {
		h.fail(w, r, "evidence capture rejected", err)
		return
	}
	state, err := attach(ctx, userID, sessionID, image)
	h.respond(w, r, state, err)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, state *models.WorkflowState, err error) {
	if err != nil {
		h.fail(w, r, "verification session operation failed", err)
		return
	}
	var pending *models.PositionOptions
	if opts, ok := h.positions.Requested(state.ID); ok {
		pending = &opts
	}
	httputil.WriteJSON(w, http.StatusOK, FromState(state, pending))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"path", r.URL.Path,
		"error", err,
	)
	httputil.WriteError(w, err)
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) sessionParams(w http.ResponseWriter, r *http.Request) (id.UserID, id.SessionID, bool) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return id.UserID{}, id.SessionID{}, false
	}
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.SessionID{}, false
	}
	return userID, sessionID, true
}
