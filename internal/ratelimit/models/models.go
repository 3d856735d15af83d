// Package models holds the rate limit value types shared by the bucket
// stores and the HTTP middleware.
package models

import "time"

// Policy is a sliding window limit for one class of endpoint.
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// Key builds the bucket key for a subject (client IP or user ID).
func (p Policy) Key(subject string) string {
	return "kyc:ratelimit:" + p.Name + ":" + subject
}

type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
