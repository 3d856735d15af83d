package testutil

import (
	"net/http"

	id "suresavings/pkg/domain"
	"suresavings/pkg/requestcontext"
)

// WithUser adds a user ID and persisted KYC tier to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithUser(req *http.Request, userID id.UserID, tier id.Tier) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithCurrentTier(ctx, tier)
	return req.WithContext(ctx)
}

// WithDevice adds client metadata as the metadata middleware would.
func WithDevice(req *http.Request, clientIP, device string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, device))
}
