package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"suresavings/internal/attestation"
	"suresavings/internal/kyc/models"
)

// producer is the subset of *kgo.Client the publisher needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaPublisher produces JSON records keyed by session ID, so every event of
// a session lands on the same partition in order.
type KafkaPublisher struct {
	client           producer
	decisionTopic    string
	attestationTopic string
	respondBaseURL   string
	logger           *slog.Logger
	now              func() time.Time
}

type KafkaOption func(*KafkaPublisher)

func WithTopics(decisions, attestations string) KafkaOption {
	return func(p *KafkaPublisher) {
		if decisions != "" {
			p.decisionTopic = decisions
		}
		if attestations != "" {
			p.attestationTopic = attestations
		}
	}
}

// WithRespondBaseURL sets the public base URL attesters answer at.
func WithRespondBaseURL(u string) KafkaOption {
	return func(p *KafkaPublisher) { p.respondBaseURL = u }
}

func WithKafkaLogger(l *slog.Logger) KafkaOption {
	return func(p *KafkaPublisher) { p.logger = l }
}

func NewKafkaPublisher(client *kgo.Client, opts ...KafkaOption) *KafkaPublisher {
	return newKafkaPublisher(client, opts...)
}

func newKafkaPublisher(client producer, opts ...KafkaOption) *KafkaPublisher {
	p := &KafkaPublisher{
		client:           client,
		decisionTopic:    DefaultDecisionTopic,
		attestationTopic: DefaultAttestationTopic,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishTierDecision implements ports.TierEventPublisher.
func (p *KafkaPublisher) PublishTierDecision(ctx context.Context, d models.TierDecision) error {
	return p.produce(ctx, p.decisionTopic, d.SessionID.String(), TypeTierDecided, decisionPayload(d))
}

// DispatchAttestationRequest implements attestation.Dispatcher.
func (p *KafkaPublisher) DispatchAttestationRequest(ctx context.Context, req attestation.Request) error {
	return p.produce(ctx, p.attestationTopic, req.SessionID.String(), TypeAttestationRequested,
		attestationPayload(req, p.respondBaseURL))
}

func (p *KafkaPublisher) produce(ctx context.Context, topic, key, eventType string, payload any) error {
	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "failed to publish event",
				"topic", topic,
				"event_type", eventType,
				"key", key,
				"error", err,
			)
		}
		return fmt.Errorf("produce %s to %s: %w", eventType, topic, err)
	}
	return nil
}
