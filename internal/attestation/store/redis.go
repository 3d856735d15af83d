package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"suresavings/internal/attestation"
	id "suresavings/pkg/domain"
	"suresavings/pkg/platform/sentinel"
)

const (
	requestKeyPrefix = "kyc:attestation:"
	sessionKeyPrefix = "kyc:attestation:session:"
)

// RedisStore keeps requests in Redis as JSON, with a per-session index set.
// Keys expire after the retention period.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedis(client *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, retention: retention}
}

func requestKey(requestID id.AttestationID) string {
	return requestKeyPrefix + requestID.String()
}

func sessionKey(sessionID id.SessionID) string {
	return sessionKeyPrefix + sessionID.String()
}

func (s *RedisStore) Save(ctx context.Context, req *attestation.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal attestation request: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, requestKey(req.ID), payload, s.retention)
	pipe.SAdd(ctx, sessionKey(req.SessionID), req.ID.String())
	if s.retention > 0 {
		pipe.Expire(ctx, sessionKey(req.SessionID), s.retention)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save attestation request: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, requestID id.AttestationID) (*attestation.Request, error) {
	raw, err := s.client.Get(ctx, requestKey(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attestation request: %w", err)
	}
	var req attestation.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("unmarshal attestation request: %w", err)
	}
	return &req, nil
}

func (s *RedisStore) ListBySession(ctx context.Context, sessionID id.SessionID) ([]*attestation.Request, error) {
	members, err := s.client.SMembers(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list attestation requests: %w", err)
	}
	out := make([]*attestation.Request, 0, len(members))
	for _, m := range members {
		rid, err := id.ParseAttestationID(m)
		if err != nil {
			continue
		}
		req, err := s.Get(ctx, rid)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttesterIndex < out[j].AttesterIndex })
	return out, nil
}
