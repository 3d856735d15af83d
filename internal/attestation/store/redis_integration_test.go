//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"suresavings/internal/attestation"
	"suresavings/internal/attestation/store"
	"suresavings/internal/kyc/models"
	id "suresavings/pkg/domain"
	"suresavings/pkg/platform/sentinel"
	"suresavings/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = store.NewRedis(s.redis.Client, time.Hour)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestRoundTripAndSessionIndex() {
	ctx := context.Background()
	sessionID := id.NewSessionID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	for i, name := range []string{"Ada", "Tunde"} {
		req := &attestation.Request{
			ID:            id.NewAttestationID(),
			SessionID:     sessionID,
			AttesterIndex: 1 - i,
			Name:          name,
			Email:         name + "@example.com",
			Relationship:  models.RelationshipFriend,
			Status:        attestation.StatusPending,
			CreatedAt:     now,
		}
		s.Require().NoError(s.store.Save(ctx, req))
	}

	keys, err := s.redis.Keys(ctx, "kyc:attestation:*")
	s.Require().NoError(err)
	s.Len(keys, 3, "two request keys and one session index")

	reqs, err := s.store.ListBySession(ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(reqs, 2)
	s.Equal("Tunde", reqs[0].Name)
	s.Equal(0, reqs[0].AttesterIndex)

	reqs[0].Status = attestation.StatusConfirmed
	s.Require().NoError(s.store.Save(ctx, reqs[0]))
	got, err := s.store.Get(ctx, reqs[0].ID)
	s.Require().NoError(err)
	s.Equal(attestation.StatusConfirmed, got.Status)
	s.True(now.Equal(got.CreatedAt))
}

func (s *RedisStoreSuite) TestMissingRequest() {
	_, err := s.store.Get(context.Background(), id.NewAttestationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestRetention() {
	ctx := context.Background()
	short := store.NewRedis(s.redis.Client, 50*time.Millisecond)
	req := &attestation.Request{ID: id.NewAttestationID(), SessionID: id.NewSessionID(), Status: attestation.StatusPending}
	s.Require().NoError(short.Save(ctx, req))

	time.Sleep(150 * time.Millisecond)
	_, err := short.Get(ctx, req.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
