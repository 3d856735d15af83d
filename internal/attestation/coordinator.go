package attestation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	dErrors "suresavings/pkg/domain-errors"
	"suresavings/pkg/platform/sentinel"
)

// Store persists attestation requests. Get returns sentinel.ErrNotFound for
// unknown IDs.
type Store interface {
	Save(ctx context.Context, req *Request) error
	Get(ctx context.Context, requestID id.AttestationID) (*Request, error)
	ListBySession(ctx context.Context, sessionID id.SessionID) ([]*Request, error)
}

// Dispatcher hands a request to the delivery channel (email/SMS) that
// contacts the attester.
type Dispatcher interface {
	DispatchAttestationRequest(ctx context.Context, req Request) error
}

// Listener receives attester answers. The session manager routes them to the
// owning session.
type Listener func(ctx context.Context, resp models.AttestationResponse) error

// Coordinator implements ports.AttestationCoordinator.
type Coordinator struct {
	store      Store
	dispatcher Dispatcher
	listener   Listener
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithTTL stamps requests with an expiry. Zero means requests never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *Coordinator) { c.ttl = ttl }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(store Store, dispatcher Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      store,
		dispatcher: dispatcher,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetListener registers where answers are delivered. It must be called
// before requests are issued.
func (c *Coordinator) SetListener(l Listener) {
	c.listener = l
}

// Issue creates and dispatches one request per attester. The returned IDs
// are in attester order. If any dispatch fails, every request of the batch
// is cancelled and the error returned.
func (c *Coordinator) Issue(ctx context.Context, in models.AttestationRequest) ([]id.AttestationID, error) {
	now := c.now()
	reqs := make([]*Request, len(in.Attesters))
	for i, a := range in.Attesters {
		reqs[i] = &Request{
			ID:            id.NewAttestationID(),
			SessionID:     in.SessionID,
			UserID:        in.UserID,
			AttesterIndex: i,
			Name:          a.Name,
			Email:         a.Email,
			Phone:         a.Phone,
			Relationship:  a.Relationship,
			Status:        StatusPending,
			CreatedAt:     now,
		}
		if c.ttl > 0 {
			reqs[i].ExpiresAt = now.Add(c.ttl)
		}
		if err := c.store.Save(ctx, reqs[i]); err != nil {
			return nil, fmt.Errorf("save attestation request: %w", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, req := range reqs {
		g.Go(func() error {
			if err := c.dispatcher.DispatchAttestationRequest(gctx, *req); err != nil {
				return fmt.Errorf("dispatch attestation request %s: %w", req.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, req := range reqs {
			req.Status = StatusCancelled
			if saveErr := c.store.Save(ctx, req); saveErr != nil {
				c.warn(ctx, "failed to cancel undispatched request", req, saveErr)
			}
		}
		return nil, err
	}

	ids := make([]id.AttestationID, len(reqs))
	for i, req := range reqs {
		ids[i] = req.ID
	}
	if c.logger != nil {
		c.logger.InfoContext(ctx, "attestation requests issued",
			"session_id", in.SessionID.String(),
			"count", len(ids),
		)
	}
	return ids, nil
}

// Get returns a request for display to the attester.
func (c *Coordinator) Get(ctx context.Context, requestID id.AttestationID) (*Request, error) {
	req, err := c.store.Get(ctx, requestID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "attestation request not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attestation request")
	}
	return req, nil
}

// Respond records an attester's answer and forwards it to the listener.
// Repeating the same answer is accepted and forwarded again; changing it is a
// conflict.
func (c *Coordinator) Respond(ctx context.Context, requestID id.AttestationID, confirmed bool) (*Request, error) {
	req, err := c.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	answer := StatusDeclined
	if confirmed {
		answer = StatusConfirmed
	}
	now := c.now()
	switch {
	case req.Status == answer:
		c.notify(ctx, req, req.RespondedAt)
		return req, nil
	case req.Status == StatusCancelled:
		return nil, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeConflict, "attestation request was withdrawn")
	case !req.Status.IsOpen():
		return nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "attestation request already answered")
	case req.Expired(now):
		return nil, dErrors.Wrap(sentinel.ErrExpired, dErrors.CodeConflict, "attestation request has expired")
	}

	req.Status = answer
	req.RespondedAt = now
	if err := c.store.Save(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record attestation response")
	}

	c.notify(ctx, req, now)
	return req, nil
}

func (c *Coordinator) notify(ctx context.Context, req *Request, at time.Time) {
	if c.listener == nil {
		return
	}
	resp := models.AttestationResponse{
		RequestID:   req.ID,
		SessionID:   req.SessionID,
		Status:      attesterStatus(req.Status),
		RespondedAt: at,
	}
	if err := c.listener(ctx, resp); err != nil {
		// The answer is recorded either way; the session may have been
		// closed or restarted since the request went out.
		c.warn(ctx, "attestation response not applied to a session", req, err)
	}
}

// Cancel withdraws every open request of the session.
func (c *Coordinator) Cancel(ctx context.Context, sessionID id.SessionID) error {
	reqs, err := c.store.ListBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("list attestation requests: %w", err)
	}
	var errs []error
	for _, req := range reqs {
		if !req.Status.IsOpen() {
			continue
		}
		req.Status = StatusCancelled
		if err := c.store.Save(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Coordinator) warn(ctx context.Context, msg string, req *Request, err error) {
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, msg,
		"attestation_id", req.ID.String(),
		"session_id", req.SessionID.String(),
		"error", err,
	)
}
