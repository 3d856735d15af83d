package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	dErrors "suresavings/pkg/domain-errors"
)

const sourceGeolocation = "geolocation"

type pendingRequest struct {
	opts  models.PositionOptions
	ready chan struct{}
}

// PositionMailbox is the position source for sessions driven from a device.
// The engine asks for a fix; the device reports one through Report. A fix
// younger than the requested cache age is reused without waiting.
type PositionMailbox struct {
	mu      sync.Mutex
	fixes   map[id.SessionID]models.Position
	pending map[id.SessionID]*pendingRequest
	now     func() time.Time
}

func NewPositionMailbox() *PositionMailbox {
	return &PositionMailbox{
		fixes:   make(map[id.SessionID]models.Position),
		pending: make(map[id.SessionID]*pendingRequest),
		now:     time.Now,
	}
}

// Report stores a device fix for the session and wakes a waiting request.
func (b *PositionMailbox) Report(sessionID id.SessionID, fix models.Position) error {
	if fix.Latitude < -90 || fix.Latitude > 90 || fix.Longitude < -180 || fix.Longitude > 180 {
		return dErrors.New(dErrors.CodeValidation, "coordinates out of range")
	}
	if fix.AccuracyMeters < 0 {
		return dErrors.New(dErrors.CodeValidation, "accuracy must not be negative")
	}
	if fix.CapturedAt.IsZero() {
		fix.CapturedAt = b.now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.fixes[sessionID] = fix
	if p, ok := b.pending[sessionID]; ok {
		close(p.ready)
		delete(b.pending, sessionID)
	}
	return nil
}

// CurrentPosition implements ports.PositionSource. It blocks until a fresh
// fix is reported or ctx is done.
func (b *PositionMailbox) CurrentPosition(ctx context.Context, sessionID id.SessionID, opts models.PositionOptions) (*models.Position, error) {
	b.mu.Lock()
	if fix, ok := b.fixes[sessionID]; ok && b.now().Sub(fix.CapturedAt) <= opts.MaxCacheAge {
		b.mu.Unlock()
		return &fix, nil
	}
	p, ok := b.pending[sessionID]
	if !ok {
		p = &pendingRequest{opts: opts, ready: make(chan struct{})}
		b.pending[sessionID] = p
	}
	b.mu.Unlock()

	select {
	case <-p.ready:
		b.mu.Lock()
		fix, ok := b.fixes[sessionID]
		b.mu.Unlock()
		if !ok {
			return nil, &models.CaptureError{Source: sourceGeolocation, Err: fmt.Errorf("position request withdrawn")}
		}
		return &fix, nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.pending[sessionID] == p {
			delete(b.pending, sessionID)
		}
		b.mu.Unlock()
		return nil, &models.CaptureError{Source: sourceGeolocation, Err: ctx.Err()}
	}
}

// Requested reports whether a position request is waiting for the session,
// with the options the device should honor.
func (b *PositionMailbox) Requested(sessionID id.SessionID) (models.PositionOptions, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[sessionID]
	if !ok {
		return models.PositionOptions{}, false
	}
	return p.opts, true
}

// Forget drops everything held for the session and releases any waiter.
func (b *PositionMailbox) Forget(sessionID id.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fixes, sessionID)
	if p, ok := b.pending[sessionID]; ok {
		close(p.ready)
		delete(b.pending, sessionID)
	}
}
