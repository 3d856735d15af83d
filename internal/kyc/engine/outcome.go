package engine

import (
	"context"

	"suresavings/internal/kyc/decision"
	"suresavings/internal/kyc/models"
)

// submit hands the session to the resolver. Tier 1/2 and the document path
// conclude immediately; the social path enters the awaiting phase.
func (e *Engine) submit(ctx context.Context, state *models.WorkflowState) {
	res := e.resolver.Submit(ctx, state)
	if !res.Verdict.Awaiting {
		e.conclude(ctx, state, res.Verdict)
		return
	}

	for i := range state.SocialAttesters {
		state.SocialAttesters[i].Status = models.AttesterPending
		state.SocialAttesters[i].RequestID = res.RequestIDs[i]
	}
	now := e.now()
	state.Phase = models.PhaseAwaitingAttestation
	state.AwaitingSince = now
	state.UpdatedAt = now
	e.metrics.AddAwaiting(1)
	e.logInfo(ctx, "awaiting attester responses", state)
}

// RecordAttestation applies one attester response to an awaiting session.
// The first final answer per attester wins; repeats are ignored.
func (e *Engine) RecordAttestation(ctx context.Context, state *models.WorkflowState, resp models.AttestationResponse) (*models.WorkflowState, error) {
	if state.Outcome.IsTerminal() {
		return state, models.ErrTerminalState
	}
	if state.Phase != models.PhaseAwaitingAttestation {
		return state, models.ErrNotAwaiting
	}
	if !resp.Status.IsFinal() {
		return state, models.ErrInvalidAttester
	}

	idx := -1
	for i, a := range state.SocialAttesters {
		if a.RequestID == resp.RequestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return state, models.ErrUnknownAttestation
	}
	if state.SocialAttesters[idx].Status.IsFinal() {
		return state, nil
	}

	state.SocialAttesters[idx].Status = resp.Status
	state.UpdatedAt = e.now()
	e.logInfo(ctx, "attester responded", state,
		"attester_index", idx,
		"status", string(resp.Status),
	)

	verdict := decision.EvaluateAttestations(state.AttesterStatuses())
	if verdict.Awaiting {
		return state, nil
	}
	e.leaveAwaiting(ctx, state, verdict.Outcome == models.OutcomeFailed)
	e.conclude(ctx, state, verdict)
	return state, nil
}

// Expire fails an awaiting session whose attesters did not all respond in
// time. Sessions in any other phase are returned unchanged.
func (e *Engine) Expire(ctx context.Context, state *models.WorkflowState) *models.WorkflowState {
	if state.Outcome.IsTerminal() || state.Phase != models.PhaseAwaitingAttestation {
		return state
	}
	e.leaveAwaiting(ctx, state, true)
	e.conclude(ctx, state, decision.Verdict{
		Outcome: models.OutcomeFailed,
		Reason:  models.ReasonAttestationExpired,
	})
	return state
}

// Abandon releases what a discarded session still holds outside the engine,
// namely outstanding attestation requests.
func (e *Engine) Abandon(ctx context.Context, state *models.WorkflowState) {
	if state.Outcome.IsTerminal() || state.Phase != models.PhaseAwaitingAttestation {
		return
	}
	e.cancelAttestations(ctx, state)
	e.logInfo(ctx, "verification session abandoned", state)
}

func (e *Engine) leaveAwaiting(ctx context.Context, state *models.WorkflowState, cancel bool) {
	if cancel {
		e.cancelAttestations(ctx, state)
		return
	}
	state.Phase = models.PhaseCollecting
	e.metrics.AddAwaiting(-1)
}

// cancelAttestations withdraws outstanding requests. A cancel failure is
// logged; the requests are then left to expire on the coordinator side.
func (e *Engine) cancelAttestations(ctx context.Context, state *models.WorkflowState) {
	if err := e.attestations.Cancel(ctx, state.ID); err != nil {
		e.logWarn(ctx, "cancelling attestation requests failed", state, err)
	}
	state.Phase = models.PhaseCollecting
	e.metrics.AddAwaiting(-1)
}

func (e *Engine) conclude(ctx context.Context, state *models.WorkflowState, verdict decision.Verdict) {
	now := e.now()
	state.Outcome = verdict.Outcome
	state.Phase = models.PhaseCollecting
	state.FailureReason = verdict.Reason
	state.ResolvedAt = now
	state.UpdatedAt = now
	if verdict.Outcome == models.OutcomeComplete {
		state.ResultingTier = state.TargetTier
		state.ErrorMessage = ""
	} else {
		state.ResultingTier = state.CurrentTier
		state.ErrorMessage = verdict.Reason.Message()
	}

	e.metrics.IncOutcome(state.TargetTier.String(), string(state.Method), string(state.Outcome), string(state.FailureReason))
	e.logInfo(ctx, "verification session concluded", state,
		"outcome", string(state.Outcome),
		"reason", string(state.FailureReason),
		"resulting_tier", state.ResultingTier.Int(),
	)
}
