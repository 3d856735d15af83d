// Package kafka builds the franz-go producer client and makes sure the
// KYC topics exist.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"suresavings/internal/platform/config"
)

// New returns a producer client, or nil when no brokers are configured.
func New(ctx context.Context, cfg config.KafkaConfig, logger *slog.Logger) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(0),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	if err := EnsureTopics(ctx, client, cfg, logger); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// EnsureTopics creates the decision and attestation topics if missing.
func EnsureTopics(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig, logger *slog.Logger) error {
	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, cfg.Partitions, cfg.Replication, nil, cfg.DecisionTopic, cfg.AttestationTopic)
	if err != nil {
		return fmt.Errorf("create kafka topics: %w", err)
	}
	for _, t := range resp.Sorted() {
		switch {
		case t.Err == nil:
			if logger != nil {
				logger.InfoContext(ctx, "kafka topic created", "topic", t.Topic)
			}
		case isTopicExists(t.Err):
		default:
			return fmt.Errorf("create kafka topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}
