// Package engine is the KYC workflow engine. It owns the step cursor of a
// verification session, gates navigation on the active step's predicate,
// runs the step side effects (OCR, geolocation) and hands the collected
// evidence to the decision resolver.
//
// The engine is not safe for concurrent use on the same WorkflowState;
// callers serialize operations per session.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"suresavings/internal/kyc/decision"
	"suresavings/internal/kyc/metrics"
	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/plan"
	"suresavings/internal/kyc/ports"
	id "suresavings/pkg/domain"
	"suresavings/pkg/requestcontext"
)

const (
	// DefaultOCRThreshold is the confidence below which an OCR result is
	// flagged to the user.
	DefaultOCRThreshold = 60

	directionForward  = "forward"
	directionBackward = "backward"
)

// DefaultPositionOptions are used for the geolocation step unless overridden.
var DefaultPositionOptions = models.PositionOptions{
	HighAccuracy: true,
	Timeout:      10 * time.Second,
	MaxCacheAge:  60 * time.Second,
}

// Engine drives verification sessions through their step plan.
type Engine struct {
	ocr          ports.OCRService
	positions    ports.PositionSource
	attestations ports.AttestationCoordinator
	resolver     *decision.Resolver

	positionOpts models.PositionOptions
	ocrThreshold int
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPositionOptions sets the options used when acquiring a position on the
// geolocation step.
func WithPositionOptions(opts models.PositionOptions) Option {
	return func(e *Engine) { e.positionOpts = opts }
}

// WithOCRThreshold sets the confidence below which OCR results are flagged.
func WithOCRThreshold(threshold int) Option {
	return func(e *Engine) { e.ocrThreshold = threshold }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine. All collaborators are required.
func New(
	ocr ports.OCRService,
	positions ports.PositionSource,
	attestations ports.AttestationCoordinator,
	resolver *decision.Resolver,
	opts ...Option,
) (*Engine, error) {
	if ocr == nil || positions == nil || attestations == nil || resolver == nil {
		return nil, fmt.Errorf("ocr, position source, attestation coordinator and resolver are required")
	}
	e := &Engine{
		ocr:          ocr,
		positions:    positions,
		attestations: attestations,
		resolver:     resolver,
		positionOpts: DefaultPositionOptions,
		ocrThreshold: DefaultOCRThreshold,
		tracer:       otel.Tracer("suresavings/kyc/engine"),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start opens a session moving a user from current to target tier.
func (e *Engine) Start(ctx context.Context, userID id.UserID, current, target id.Tier) (*models.WorkflowState, error) {
	if !current.IsValid() || !target.IsTarget() || target <= current {
		return nil, fmt.Errorf("%w: from %d to %d", models.ErrInvalidTierTransition, current.Int(), target.Int())
	}
	steps, err := plan.GetPlan(target)
	if err != nil {
		return nil, err
	}

	now := e.now()
	state := &models.WorkflowState{
		ID:            id.NewSessionID(),
		UserID:        userID,
		CurrentTier:   current,
		TargetTier:    target,
		Plan:          steps,
		Method:        models.MethodDocument,
		Outcome:       models.OutcomeInProgress,
		Phase:         models.PhaseCollecting,
		ResultingTier: current,
		Device:        requestcontext.Device(ctx),
		StartedAt:     now,
		UpdatedAt:     now,
	}
	state.ClearEvidence()

	e.metrics.IncSessionStarted(target.String())
	e.logInfo(ctx, "verification session started", state)
	return state, nil
}

// CanAdvance reports whether the active step's required inputs are present.
// It never mutates state.
func (e *Engine) CanAdvance(state *models.WorkflowState) bool {
	return state.CurrentStep().Satisfied(*state)
}

// Advance moves past the active step. On the final step it submits the
// session for a decision instead. Dependency failures never surface as
// errors here: OCR failures leave the cursor in place with ErrorMessage set,
// and submission failures conclude the session as Failed.
func (e *Engine) Advance(ctx context.Context, state *models.WorkflowState) (*models.WorkflowState, error) {
	if state.Outcome.IsTerminal() {
		return state, models.ErrTerminalState
	}
	if state.Phase == models.PhaseAwaitingAttestation {
		return state, models.ErrAwaitingAttestation
	}

	current := state.CurrentStep()
	if !e.CanAdvance(state) {
		e.metrics.IncGateRejected(string(current.ID))
		return state, fmt.Errorf("%w: %s", models.ErrStepGate, current.ID)
	}

	state.ErrorMessage = ""
	switch current.ID {
	case models.StepVerificationMethod:
		state.MethodLocked = true
	case models.StepDocumentUpload:
		if err := e.extractDocument(ctx, state); err != nil {
			state.UpdatedAt = e.now()
			return state, nil
		}
	}

	if state.IsLastStep() {
		e.submit(ctx, state)
		return state, nil
	}

	e.move(ctx, state, 1)
	return state, nil
}

// Retreat moves back one step. It is a silent no-op on the first step, on a
// concluded session and while attestations are outstanding.
func (e *Engine) Retreat(ctx context.Context, state *models.WorkflowState) *models.WorkflowState {
	if state.CurrentStepIndex == 0 ||
		state.Outcome.IsTerminal() ||
		state.Phase == models.PhaseAwaitingAttestation {
		return state
	}
	state.ErrorMessage = ""
	e.move(ctx, state, -1)
	return state
}

// Restart returns the session to its first step with all evidence and the
// outcome cleared. The tiers are kept. Outstanding attestation requests are
// cancelled.
func (e *Engine) Restart(ctx context.Context, state *models.WorkflowState) *models.WorkflowState {
	if state.Phase == models.PhaseAwaitingAttestation {
		e.cancelAttestations(ctx, state)
	}

	steps, err := plan.GetPlan(state.TargetTier)
	if err == nil {
		state.Plan = steps
	}
	state.CurrentStepIndex = 0
	state.Method = models.MethodDocument
	state.MethodLocked = false
	state.ClearEvidence()
	state.Outcome = models.OutcomeInProgress
	state.Phase = models.PhaseCollecting
	state.FailureReason = ""
	state.ErrorMessage = ""
	state.Notice = ""
	state.ResultingTier = state.CurrentTier
	state.AwaitingSince = time.Time{}
	state.ResolvedAt = time.Time{}
	state.UpdatedAt = e.now()

	e.logInfo(ctx, "verification session restarted", state)
	return state
}

// move shifts the cursor by delta and runs the entry side effect of the new
// step.
func (e *Engine) move(ctx context.Context, state *models.WorkflowState, delta int) {
	from := state.CurrentStep().ID
	state.CurrentStepIndex += delta
	state.UpdatedAt = e.now()

	direction := directionForward
	if delta < 0 {
		direction = directionBackward
	}
	e.metrics.IncTransition(string(from), direction)

	if state.CurrentStep().ID == models.StepGeolocationCheck {
		e.capturePosition(ctx, state)
	}
}

func (e *Engine) logInfo(ctx context.Context, msg string, state *models.WorkflowState, args ...any) {
	if e.logger == nil {
		return
	}
	base := []any{
		"session_id", state.ID.String(),
		"user_id", state.UserID.String(),
		"target_tier", state.TargetTier.Int(),
		"step", string(state.CurrentStep().ID),
	}
	e.logger.InfoContext(ctx, msg, append(base, args...)...)
}

func (e *Engine) logWarn(ctx context.Context, msg string, state *models.WorkflowState, err error) {
	if e.logger == nil {
		return
	}
	e.logger.WarnContext(ctx, msg,
		"session_id", state.ID.String(),
		"step", string(state.CurrentStep().ID),
		"error", err,
	)
}
