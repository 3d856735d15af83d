package decision

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"suresavings/internal/kyc/metrics"
	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/ports"
	id "suresavings/pkg/domain"
)

// Resolver performs the single submission of a session: it calls the
// collaborators the tier and method require and judges the result.
type Resolver struct {
	provider     ports.IdentityProvider
	proximity    ports.ProximityVerifier
	attestations ports.AttestationCoordinator
	metrics      *metrics.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
}

// Option configures a Resolver.
type Option func(*Resolver)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver wires the collaborators used during submission.
func NewResolver(
	provider ports.IdentityProvider,
	proximity ports.ProximityVerifier,
	attestations ports.AttestationCoordinator,
	opts ...Option,
) *Resolver {
	r := &Resolver{
		provider:     provider,
		proximity:    proximity,
		attestations: attestations,
		tracer:       otel.Tracer("suresavings/kyc/decision"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolution is the verdict plus, on the social path, the issued request IDs
// in attester order.
type Resolution struct {
	Verdict    Verdict
	RequestIDs []id.AttestationID
}

// Submit gathers the remaining evidence for state and evaluates it.
// Collaborator failures are folded into the verdict, never returned.
func (r *Resolver) Submit(ctx context.Context, state *models.WorkflowState) Resolution {
	ctx, span := r.tracer.Start(ctx, "decision.Submit", trace.WithAttributes(
		attribute.String("session_id", state.ID.String()),
		attribute.Int("target_tier", state.TargetTier.Int()),
		attribute.String("method", string(state.Method)),
	))
	defer span.End()

	ev := Evidence{
		TargetTier: state.TargetTier,
		Method:     state.Method,
		Attesters:  state.AttesterStatuses(),
	}

	var res Resolution
	switch {
	case state.TargetTier != id.Tier3:
		r.gatherIdentity(ctx, state, &ev)
	case state.Method == models.MethodSocial:
		res.RequestIDs = r.issueAttestations(ctx, state, &ev)
	default:
		r.gatherProximity(ctx, state, &ev)
	}

	res.Verdict = Evaluate(ev)
	if res.Verdict.Outcome == models.OutcomeFailed {
		span.SetStatus(codes.Error, string(res.Verdict.Reason))
	}
	return res
}

func (r *Resolver) gatherIdentity(ctx context.Context, state *models.WorkflowState, ev *Evidence) {
	evidence := models.IdentityEvidence{
		UserID:        state.UserID,
		BVN:           state.Field(models.FieldBVN),
		NIN:           state.Field(models.FieldNIN),
		LivenessPhoto: state.LivenessPhoto,
	}

	start := time.Now()
	verdict, err := r.provider.Verify(ctx, state.TargetTier, evidence)
	r.metrics.ObserveDependency("provider", time.Since(start))

	ev.Provider = verdict
	ev.ProviderErr = err
	if err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "identity provider call failed",
			"session_id", state.ID.String(),
			"target_tier", state.TargetTier.Int(),
			"category", models.ProviderCategory(err),
			"error", err,
		)
	}
}

func (r *Resolver) gatherProximity(ctx context.Context, state *models.WorkflowState, ev *Evidence) {
	ev.HasGeolocation = state.Geolocation != nil
	ev.HasOCR = state.OCRResult != nil
	if !ev.HasGeolocation || !ev.HasOCR {
		return
	}

	start := time.Now()
	match, err := r.proximity.Verify(ctx, state.OCRResult.SuggestedAddress, *state.Geolocation)
	r.metrics.ObserveDependency("proximity", time.Since(start))

	ev.ProximityMatch = match
	ev.ProximityErr = err
	if err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "proximity verification failed",
			"session_id", state.ID.String(),
			"error", err,
		)
	}
}

func (r *Resolver) issueAttestations(ctx context.Context, state *models.WorkflowState, ev *Evidence) []id.AttestationID {
	req := models.AttestationRequest{
		SessionID: state.ID,
		UserID:    state.UserID,
		Attesters: state.SocialAttesters[:],
	}

	start := time.Now()
	ids, err := r.attestations.Issue(ctx, req)
	r.metrics.ObserveDependency("attestation", time.Since(start))

	if err == nil && len(ids) != models.AttesterCount {
		err = errShortIssue
	}
	if err != nil {
		ev.IssueErr = err
		if r.logger != nil {
			r.logger.WarnContext(ctx, "issuing attestation requests failed",
				"session_id", state.ID.String(),
				"error", err,
			)
		}
		return nil
	}
	// Freshly issued requests are all pending.
	ev.Attesters = [models.AttesterCount]models.AttesterStatus{models.AttesterPending, models.AttesterPending}
	return ids
}
