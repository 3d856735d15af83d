package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "suresavings/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSessionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSessionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSessionID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseSessionID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, SessionID(validUUID), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE users;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errUser := ParseUserID(tt.input)
			_, errSession := ParseSessionID(tt.input)
			_, errAttestation := ParseAttestationID(tt.input)
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(errUser, dErrors.CodeInvalidInput))
				assert.True(t, dErrors.HasCode(errSession, dErrors.CodeInvalidInput))
				assert.True(t, dErrors.HasCode(errAttestation, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, errUser)
			require.NoError(t, errSession)
			require.NoError(t, errAttestation)
		})
	}
}

func TestTierDailyLimits(t *testing.T) {
	expected := map[Tier]int64{
		Tier0: 10_000,
		Tier1: 50_000,
		Tier2: 500_000,
		Tier3: 10_000_000,
	}
	for tier, limit := range expected {
		assert.Equal(t, limit, tier.DailyLimit(), tier.String())
	}
	assert.Equal(t, int64(10_000), Tier(7).DailyLimit())
}

func TestParseTier(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3} {
		tier, err := ParseTier(n)
		require.NoError(t, err)
		assert.Equal(t, n, tier.Int())
	}

	_, err := ParseTier(4)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	_, err = ParseTier(-1)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	assert.False(t, Tier0.IsTarget())
	assert.True(t, Tier3.IsTarget())
	assert.Empty(t, Tier0.Benefits())
	assert.Contains(t, Tier3.Benefits(), "Virtual cards")
}

func TestIDTextRoundTrip(t *testing.T) {
	original := NewAttestationID()
	raw, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"`+original.String()+`"`, string(raw))

	var decoded AttestationID
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}
