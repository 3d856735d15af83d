package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suresavings/internal/ratelimit/models"
	"suresavings/internal/ratelimit/store/bucket"
	id "suresavings/pkg/domain"
	"suresavings/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/attestations/x/response", nil)
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, "unknown device"))
}

func TestByClientIP(t *testing.T) {
	policy := models.Policy{Name: "attestation", Limit: 2, Window: time.Minute}
	h := New(bucket.NewInMemoryBucketStore(), nil).ByClientIP(policy)(okHandler)

	for range 2 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, requestFrom("198.51.100.7"))
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Remaining"))
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("198.51.100.7"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate_limit_exceeded")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("198.51.100.8"))
	assert.Equal(t, http.StatusNoContent, rr.Code, "other clients keep their own window")
}

func TestByUser(t *testing.T) {
	policy := models.Policy{Name: "uploads", Limit: 1, Window: time.Minute}
	h := New(bucket.NewInMemoryBucketStore(), nil).ByUser(policy)(okHandler)

	forUser := func(uid id.UserID) *http.Request {
		req := requestFrom("203.0.113.1")
		return req.WithContext(requestcontext.WithUserID(req.Context(), uid))
	}
	ada, tunde := id.UserID(uuid.New()), id.UserID(uuid.New())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, forUser(ada))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, forUser(ada))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, forUser(tunde))
	assert.Equal(t, http.StatusNoContent, rr.Code, "users behind one address are limited separately")
}

func TestFailsOpen(t *testing.T) {
	policy := models.Policy{Name: "attestation", Limit: 1, Window: time.Minute}
	h := New(failingStore{}, nil).ByClientIP(policy)(okHandler)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("198.51.100.7"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDisabledAndZeroPolicies(t *testing.T) {
	strict := models.Policy{Name: "p", Limit: 1, Window: time.Minute}

	h := New(failingStore{}, nil, WithDisabled(true)).ByClientIP(strict)(okHandler)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("198.51.100.7"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))

	h = New(failingStore{}, nil).ByClientIP(models.Policy{Name: "off"})(okHandler)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, requestFrom("198.51.100.7"))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}
