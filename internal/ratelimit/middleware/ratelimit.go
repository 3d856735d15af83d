package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"suresavings/internal/ratelimit/models"
	"suresavings/pkg/platform/httputil"
	"suresavings/pkg/requestcontext"
)

// BucketStore is implemented by the in-memory and Redis sliding windows.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

type Middleware struct {
	store    BucketStore
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled turns every limit into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled && logger != nil {
		logger.Info("rate limiting disabled")
	}
	return m
}

// ByClientIP limits unauthenticated endpoints per client address.
func (m *Middleware) ByClientIP(policy models.Policy) func(http.Handler) http.Handler {
	return m.limit(policy, func(r *http.Request) string {
		return requestcontext.ClientIP(r.Context())
	})
}

// ByUser limits authenticated endpoints per user. Requests without a user
// fall back to the client address.
func (m *Middleware) ByUser(policy models.Policy) func(http.Handler) http.Handler {
	return m.limit(policy, func(r *http.Request) string {
		if uid := requestcontext.UserID(r.Context()); !uid.IsNil() {
			return "user:" + uid.String()
		}
		return requestcontext.ClientIP(r.Context())
	})
}

func (m *Middleware) limit(policy models.Policy, subject func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m.disabled || !policy.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := subject(r)
			if key == "" {
				key = "unknown"
			}

			result, err := m.store.Allow(ctx, policy.Key(key), policy.Limit, policy.Window)
			if err != nil {
				// Fail open: a limiter outage must not block verification.
				if m.logger != nil {
					m.logger.ErrorContext(ctx, "rate limit check failed",
						"policy", policy.Name,
						"request_id", requestcontext.RequestID(ctx),
						"error", err,
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				if m.logger != nil {
					m.logger.WarnContext(ctx, "rate limit exceeded",
						"policy", policy.Name,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
