package session

import (
	"context"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

// Advance moves the session forward, submitting it on the final step.
func (m *Manager) Advance(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		_, err := m.engine.Advance(ctx, s)
		return err
	})
}

func (m *Manager) Retreat(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		m.engine.Retreat(ctx, s)
		return nil
	})
}

// Restart clears the session, including per-session data held by adapters
// such as a reported device position.
func (m *Manager) Restart(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		m.engine.Restart(ctx, s)
		m.release(s.ID)
		return nil
	})
}

// SetFields records several collected fields. A batch with any rejected
// field changes nothing.
func (m *Manager) SetFields(ctx context.Context, userID id.UserID, sessionID id.SessionID, fields map[string]string) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.SetFields(s, fields)
	})
}

func (m *Manager) SelectMethod(ctx context.Context, userID id.UserID, sessionID id.SessionID, method models.VerificationMethod) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.SelectMethod(s, method)
	})
}

func (m *Manager) SelectDocumentType(ctx context.Context, userID id.UserID, sessionID id.SessionID, docType models.DocumentType) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.SelectDocumentType(s, docType)
	})
}

func (m *Manager) AttachDocument(ctx context.Context, userID id.UserID, sessionID id.SessionID, image *models.Image) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.AttachDocument(s, image)
	})
}

func (m *Manager) AttachLiveness(ctx context.Context, userID id.UserID, sessionID id.SessionID, image *models.Image) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.AttachLiveness(s, image)
	})
}

func (m *Manager) SetAttester(ctx context.Context, userID id.UserID, sessionID id.SessionID, index int, attester models.Attester) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.SetAttester(s, index, attester)
	})
}

func (m *Manager) SelectAddress(ctx context.Context, userID id.UserID, sessionID id.SessionID, address string) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.SelectAddress(s, address)
	})
}

func (m *Manager) RetryGeolocation(ctx context.Context, userID id.UserID, sessionID id.SessionID) (*models.WorkflowState, error) {
	return m.do(ctx, userID, sessionID, func(s *models.WorkflowState) error {
		return m.engine.RetryGeolocation(ctx, s)
	})
}

// HandleAttestation routes an attester response to the session that issued
// the request. An answer for a live session that has not registered the
// request yet is held until it does. Responses for unknown or already settled
// requests are reported as ErrUnknownAttestation.
func (m *Manager) HandleAttestation(ctx context.Context, resp models.AttestationResponse) error {
	m.mu.Lock()
	sid, ok := m.byRequest[resp.RequestID]
	if !ok {
		_, live := m.sessions[resp.SessionID]
		if live {
			m.early[resp.RequestID] = resp
		}
		m.mu.Unlock()
		if !live {
			return models.ErrUnknownAttestation
		}
		return nil
	}
	e := m.sessions[sid]
	m.mu.Unlock()
	if e == nil {
		return models.ErrUnknownAttestation
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return models.ErrUnknownAttestation
	}
	if _, err := m.engine.RecordAttestation(ctx, e.state, resp); err != nil {
		return err
	}
	m.settle(ctx, e)
	return nil
}
