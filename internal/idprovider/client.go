// Package idprovider is the HTTP adapter for the external identity
// verification provider used by tier 1 (BVN + liveness) and tier 2 (NIN).
package idprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	"suresavings/pkg/platform/circuit"
)

const (
	verifyPath      = "/v1/verifications"
	maxResponseSize = 1 << 20
)

// Client calls the provider over HTTP. Consecutive outages open a circuit
// breaker; while open, calls fail fast as provider outages.
type Client struct {
	providerID string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) { cl.breaker = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a provider client.
func New(providerID, baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		providerID: providerID,
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuit.New(providerID),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type verifyRequest struct {
	Tier           int    `json:"tier"`
	UserID         string `json:"user_id"`
	BVN            string `json:"bvn,omitempty"`
	NIN            string `json:"nin,omitempty"`
	LivenessPhoto  string `json:"liveness_photo,omitempty"`
	LivenessDigest string `json:"liveness_digest,omitempty"`
}

type verifyResponse struct {
	Approved  *bool  `json:"approved"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// Verify implements ports.IdentityProvider.
func (c *Client) Verify(ctx context.Context, tier id.Tier, evidence models.IdentityEvidence) (models.ProviderVerdict, error) {
	if !c.breaker.Allow() {
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorProviderOutage, c.providerID, "circuit open", nil)
	}

	payload := verifyRequest{
		Tier:   tier.Int(),
		UserID: evidence.UserID.String(),
		BVN:    evidence.BVN,
		NIN:    evidence.NIN,
	}
	if evidence.LivenessPhoto != nil {
		payload.LivenessPhoto = base64.StdEncoding.EncodeToString(evidence.LivenessPhoto.Data)
		payload.LivenessDigest = evidence.LivenessPhoto.Digest
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorInternal, c.providerID, "encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorInternal, c.providerID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		perr := c.transportError(err)
		c.record(ctx, perr)
		return models.ProviderVerdict{}, perr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		perr := models.NewProviderError(models.ErrorProviderOutage, c.providerID, "read response", err)
		c.record(ctx, perr)
		return models.ProviderVerdict{}, perr
	}

	verdict, perr := parseVerifyResponse(c.providerID, resp.StatusCode, raw)
	c.record(ctx, perr)
	if perr != nil {
		return models.ProviderVerdict{}, perr
	}
	return verdict, nil
}

func (c *Client) transportError(err error) *models.ProviderError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.NewProviderError(models.ErrorTimeout, c.providerID, "request timed out", err)
	}
	return models.NewProviderError(models.ErrorProviderOutage, c.providerID, "request failed", err)
}

// record feeds the breaker. Only failures that say something about the
// provider's health count; bad input from us does not.
func (c *Client) record(ctx context.Context, perr *models.ProviderError) {
	if perr == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
			c.logger.InfoContext(ctx, "identity provider circuit closed", "provider", c.providerID)
		}
		return
	}
	if !perr.Retryable {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "identity provider circuit opened",
			"provider", c.providerID,
			"category", string(perr.Category),
		)
	}
}

// parseVerifyResponse maps an HTTP response to a verdict or a normalized
// provider error.
func parseVerifyResponse(providerID string, status int, body []byte) (models.ProviderVerdict, *models.ProviderError) {
	switch {
	case status == http.StatusOK:
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorBadData, providerID, "provider rejected the request", nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorAuthentication, providerID, "provider refused credentials", nil)
	case status == http.StatusTooManyRequests:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorRateLimited, providerID, "rate limited", nil)
	case status == http.StatusGatewayTimeout:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorTimeout, providerID, "upstream timeout", nil)
	case status >= 500:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorProviderOutage, providerID, fmt.Sprintf("status %d", status), nil)
	default:
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorContractMismatch, providerID, fmt.Sprintf("unexpected status %d", status), nil)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorBadData, providerID, "malformed response", err)
	}
	if parsed.Approved == nil {
		return models.ProviderVerdict{}, models.NewProviderError(models.ErrorContractMismatch, providerID, "response missing approved", nil)
	}
	return models.ProviderVerdict{
		Approved:  *parsed.Approved,
		Reference: parsed.Reference,
		Reason:    parsed.Reason,
	}, nil
}
