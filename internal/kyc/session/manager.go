// Package session owns the live verification sessions. It serializes
// operations per session, routes attestation callbacks to the session that
// issued them, applies the attestation expiry policy and reports concluded
// sessions to the audit trail and the tier event stream.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"suresavings/internal/kyc/engine"
	"suresavings/internal/kyc/models"
	"suresavings/internal/kyc/ports"
	id "suresavings/pkg/domain"
)

// DefaultAttestationTTL bounds how long a social attestation may stay
// unanswered before the session fails.
const DefaultAttestationTTL = 72 * time.Hour

type entry struct {
	mu        sync.Mutex
	state     *models.WorkflowState
	timer     *time.Timer
	requests  []id.AttestationID
	window    uint64
	finalized bool
	removed   bool
}

// Manager holds one WorkflowState per session. Only the owning user can
// reach a session; a mismatch is reported as not found.
type Manager struct {
	engine    *engine.Engine
	recorder  ports.DecisionRecorder
	publisher ports.TierEventPublisher
	ttl       time.Duration
	logger    *slog.Logger
	onDiscard []func(id.SessionID)

	mu        sync.Mutex
	sessions  map[id.SessionID]*entry
	byUser    map[id.UserID]id.SessionID
	byRequest map[id.AttestationID]id.SessionID
	// early holds answers that arrived before their session registered the
	// request, which happens when an attester responds while the requests
	// are still being issued.
	early map[id.AttestationID]models.AttestationResponse
}

// Option configures a Manager.
type Option func(*Manager)

// WithAttestationTTL sets the attestation expiry. Zero disables expiry.
func WithAttestationTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithDiscardHook registers fn to run when a session is dropped or restarted,
// so adapters holding per-session data can release it.
func WithDiscardHook(fn func(id.SessionID)) Option {
	return func(m *Manager) { m.onDiscard = append(m.onDiscard, fn) }
}

// NewManager creates a session manager.
func NewManager(eng *engine.Engine, recorder ports.DecisionRecorder, publisher ports.TierEventPublisher, opts ...Option) *Manager {
	m := &Manager{
		engine:    eng,
		recorder:  recorder,
		publisher: publisher,
		ttl:       DefaultAttestationTTL,
		sessions:  make(map[id.SessionID]*entry),
		byUser:    make(map[id.UserID]id.SessionID),
		byRequest: make(map[id.AttestationID]id.SessionID),
		early:     make(map[id.AttestationID]models.AttestationResponse),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start opens a new session for the user. A concluded session the user still
// holds is replaced; an open one is not.
func (m *Manager) Start(ctx context.Context, userID id.UserID, current, target id.Tier) (*models.WorkflowState, error) {
	m.mu.Lock()
	existing := m.sessions[m.byUser[userID]]
	m.mu.Unlock()
	if existing != nil && !m.discardConcluded(existing) {
		return nil, models.ErrSessionExists
	}

	state, err := m.engine.Start(ctx, userID, current, target)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[userID]; ok {
		return nil, models.ErrSessionExists
	}
	m.sessions[state.ID] = &entry{state: state}
	m.byUser[userID] = state.ID
	return state.Clone(), nil
}

// discardConcluded removes e if its session has concluded.
func (m *Manager) discardConcluded(e *entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return true
	}
	if !e.state.Outcome.IsTerminal() {
		return false
	}
	m.remove(e)
	return true
}

// Active returns the user's open session, if any.
func (m *Manager) Active(ctx context.Context, userID id.UserID) (*models.WorkflowState, error) {
	m.mu.Lock()
	sid, ok := m.byUser[userID]
	m.mu.Unlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return m.Get(ctx, userID, sid)
}

// Get returns a snapshot of the session. A completed session is discarded
// once it has been handed out.
func (m *Manager) Get(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(*models.WorkflowState) error { return nil })
}

// Authorize checks that the session exists and belongs to the user without
// waiting on the session lock. Position reports use it while an advance into
// the geolocation step is blocked waiting for the fix.
func (m *Manager) Authorize(userID id.UserID, sessionID id.SessionID) error {
	_, err := m.lookup(userID, sessionID)
	return err
}

// Close abandons a session, cancelling outstanding attestation requests.
func (m *Manager) Close(ctx context.Context, userID id.UserID, sessionID id.SessionID) error {
	e, err := m.lookup(userID, sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return models.ErrSessionNotFound
	}
	m.engine.Abandon(ctx, e.state)
	m.remove(e)
	if m.logger != nil {
		m.logger.InfoContext(ctx, "verification session closed",
			"session_id", sessionID.String(),
			"user_id", userID.String(),
		)
	}
	return nil
}

// Shutdown abandons every live session.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			m.engine.Abandon(ctx, e.state)
			m.remove(e)
		}
		e.mu.Unlock()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// do runs op under the session lock, then reconciles timers, callback routes
// and reporting with the resulting state.
func (m *Manager) do(ctx context.Context, userID id.UserID, sessionID id.SessionID, op func(*models.WorkflowState) error) (*models.WorkflowState, error) {
	e, err := m.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, models.ErrSessionNotFound
	}

	opErr := op(e.state)
	m.settle(ctx, e)
	view := e.state.Clone()
	if view.Outcome == models.OutcomeComplete {
		m.remove(e)
	}
	return view, opErr
}

func (m *Manager) lookup(userID id.UserID, sessionID id.SessionID) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[sessionID]
	if !ok || e.state.UserID != userID {
		return nil, models.ErrSessionNotFound
	}
	return e, nil
}

// settle must be called with e.mu held.
func (m *Manager) settle(ctx context.Context, e *entry) {
	state := e.state
	if state.Phase == models.PhaseAwaitingAttestation && e.requests == nil {
		m.track(ctx, e)
	}
	if state.Phase != models.PhaseAwaitingAttestation {
		if e.requests != nil {
			m.untrack(e)
		}
		m.dropEarly(state.ID)
	}

	switch {
	case state.Outcome.IsTerminal() && !e.finalized:
		e.finalized = true
		m.report(ctx, state)
	case !state.Outcome.IsTerminal():
		e.finalized = false
	}
}

// track registers the session's requests for callback routing, starts the
// expiry timer and applies any answers that arrived before registration.
func (m *Manager) track(ctx context.Context, e *entry) {
	state := e.state
	e.requests = make([]id.AttestationID, 0, len(state.SocialAttesters))
	var pending []models.AttestationResponse
	m.mu.Lock()
	for _, a := range state.SocialAttesters {
		m.byRequest[a.RequestID] = state.ID
		e.requests = append(e.requests, a.RequestID)
		if resp, ok := m.early[a.RequestID]; ok {
			pending = append(pending, resp)
			delete(m.early, a.RequestID)
		}
	}
	m.mu.Unlock()

	if m.ttl > 0 {
		e.window++
		window := e.window
		e.timer = time.AfterFunc(m.ttl, func() { m.expire(e, window) })
	}

	for _, resp := range pending {
		if state.Outcome.IsTerminal() {
			break
		}
		if _, err := m.engine.RecordAttestation(ctx, state, resp); err != nil && m.logger != nil {
			m.logger.WarnContext(ctx, "early attestation response not applied",
				"session_id", state.ID.String(),
				"request_id", resp.RequestID.String(),
				"error", err,
			)
		}
	}
}

// dropEarly discards buffered answers of a session that is no longer waiting
// on them.
func (m *Manager) dropEarly(sessionID id.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for rid, resp := range m.early {
		if resp.SessionID == sessionID {
			delete(m.early, rid)
		}
	}
}

func (m *Manager) untrack(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	m.mu.Lock()
	for _, rid := range e.requests {
		delete(m.byRequest, rid)
	}
	m.mu.Unlock()
	e.requests = nil
}

// remove must be called with e.mu held.
func (m *Manager) remove(e *entry) {
	m.untrack(e)
	e.removed = true
	m.mu.Lock()
	delete(m.sessions, e.state.ID)
	if m.byUser[e.state.UserID] == e.state.ID {
		delete(m.byUser, e.state.UserID)
	}
	m.mu.Unlock()
	m.dropEarly(e.state.ID)
	m.release(e.state.ID)
}

// release lets adapters drop what they hold for the session.
func (m *Manager) release(sessionID id.SessionID) {
	for _, fn := range m.onDiscard {
		fn(sessionID)
	}
}

// expire runs on the timer goroutine. A window that was closed or replaced
// after the timer fired is left alone.
func (m *Manager) expire(e *entry, window uint64) {
	ctx := context.Background()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed || e.timer == nil || e.window != window {
		return
	}
	m.engine.Expire(ctx, e.state)
	m.settle(ctx, e)
	if m.logger != nil {
		m.logger.InfoContext(ctx, "attestation window elapsed",
			"session_id", e.state.ID.String(),
			"outcome", string(e.state.Outcome),
		)
	}
}

// report hands a concluded session to the audit trail and the tier event
// stream. Failures are logged; the outcome itself is already final.
func (m *Manager) report(ctx context.Context, state *models.WorkflowState) {
	if m.recorder != nil {
		if err := m.recorder.Record(ctx, state); err != nil && m.logger != nil {
			m.logger.ErrorContext(ctx, "failed to record verification decision",
				"session_id", state.ID.String(),
				"error", err,
			)
		}
	}
	if m.publisher != nil {
		if err := m.publisher.PublishTierDecision(ctx, models.DecisionFrom(state)); err != nil && m.logger != nil {
			m.logger.ErrorContext(ctx, "failed to publish tier decision",
				"session_id", state.ID.String(),
				"error", err,
			)
		}
	}
}
