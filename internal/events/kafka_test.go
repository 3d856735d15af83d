package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newTestPublisher(p producer, opts ...KafkaOption) *KafkaPublisher {
	pub := newKafkaPublisher(p, opts...)
	pub.now = func() time.Time { return fixedNow }
	return pub
}

func decode(t *testing.T, value []byte) (string, map[string]any) {
	t.Helper()
	var env struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(value, &env))
	return env.Type, env.Payload
}

func TestPublishTierDecision(t *testing.T) {
	fp := &fakeProducer{}
	pub := newTestPublisher(fp, WithTopics("decisions", ""))

	d := models.TierDecision{
		SessionID:     id.NewSessionID(),
		UserID:        id.UserID(uuid.New()),
		PreviousTier:  id.Tier1,
		TargetTier:    id.Tier2,
		ResultingTier: id.Tier2,
		DailyLimit:    id.Tier2.DailyLimit(),
		Method:        models.MethodDocument,
		Outcome:       models.OutcomeComplete,
		DecidedAt:     fixedNow,
	}
	require.NoError(t, pub.PublishTierDecision(context.Background(), d))

	require.Len(t, fp.records, 1)
	rec := fp.records[0]
	assert.Equal(t, "decisions", rec.Topic)
	assert.Equal(t, d.SessionID.String(), string(rec.Key))
	assert.Equal(t, TypeTierDecided, string(rec.Headers[0].Value))

	typ, payload := decode(t, rec.Value)
	assert.Equal(t, TypeTierDecided, typ)
	assert.EqualValues(t, 2, payload["resulting_tier"])
	assert.EqualValues(t, id.Tier2.DailyLimit(), payload["daily_limit"])
	assert.NotContains(t, payload, "reason")
}

func TestDispatchAttestationRequest(t *testing.T) {
	fp := &fakeProducer{}
	pub := newTestPublisher(fp, WithRespondBaseURL("https://kyc.example.com"))

	req := attestation.Request{
		ID:           id.NewAttestationID(),
		SessionID:    id.NewSessionID(),
		Name:         "Ada",
		Email:        "ada@example.com",
		Relationship: models.RelationshipNeighbor,
		ExpiresAt:    fixedNow.Add(72 * time.Hour),
	}
	require.NoError(t, pub.DispatchAttestationRequest(context.Background(), req))

	require.Len(t, fp.records, 1)
	assert.Equal(t, DefaultAttestationTopic, fp.records[0].Topic)
	_, payload := decode(t, fp.records[0].Value)
	assert.Equal(t, "https://kyc.example.com/attestations/"+req.ID.String(), payload["respond_url"])
	assert.Equal(t, "neighbor", payload["relationship"])
	assert.NotContains(t, payload, "phone")
}

func TestProduceFailure(t *testing.T) {
	fp := &fakeProducer{err: errors.New("broker unreachable")}
	pub := newTestPublisher(fp)

	err := pub.PublishTierDecision(context.Background(), models.TierDecision{SessionID: id.NewSessionID()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unreachable")
}
