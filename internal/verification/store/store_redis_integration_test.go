//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"vouch/internal/verification/models"
)

type RedisStoreSuite struct {
	suite.Suite
	client *redis.Client
	store  *RedisStore
	ctx    context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(s.ctx).Err())

	s.store = NewRedis(s.client, nil)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(s.ctx).Err())
}

func (s *RedisStoreSuite) TestSaveFindDelete() {
	rec := models.Record{
		Username:  "@alice",
		Service:   "EscrowCo",
		AddedBy:   "@owner",
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.Require().NoError(s.store.Save(s.ctx, rec))

	got, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal(rec, got)

	existed, err := s.store.Delete(s.ctx, "@alice")
	s.Require().NoError(err)
	s.True(existed)

	_, err = s.store.FindAny(s.ctx, "@alice")
	s.Require().ErrorIs(err, ErrNotFound)

	existed, err = s.store.Delete(s.ctx, "@alice")
	s.Require().NoError(err)
	s.False(existed)
}

func (s *RedisStoreSuite) TestFindAnyDisjunctionOrder() {
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@bobross", Service: "Legacy"}))
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@bob-ross", Service: "Hyphen"}))

	// MGET probes all candidates; the first present key in candidate order wins.
	rec, err := s.store.FindAny(s.ctx, "@bob_ross", "@bobross", "@bob-ross")
	s.Require().NoError(err)
	s.Equal("Legacy", rec.Service)
}

func (s *RedisStoreSuite) TestSaveReplacesInFull() {
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "EscrowCo", Network: "mainnet"}))
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "OtherCo"}))

	rec, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal("OtherCo", rec.Service)
	s.Empty(rec.Network)
}
