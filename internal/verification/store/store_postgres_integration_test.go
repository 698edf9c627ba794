//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"vouch/internal/verification/models"
)

type PostgresStoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("vouch"),
		tcpostgres.WithUsername("vouch"),
		tcpostgres.WithPassword("vouch"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = sql.Open("postgres", dsn)
	s.Require().NoError(err)
	s.Require().NoError(s.db.PingContext(s.ctx))

	s.store = NewPostgres(s.db, nil)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.db.ExecContext(s.ctx, "TRUNCATE TABLE verified_users")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestSaveFindDelete() {
	rec := models.Record{
		Username:  "@alice",
		Service:   "EscrowCo",
		AddedBy:   "@owner",
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(s.store.Save(s.ctx, rec))

	got, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal(rec.Service, got.Service)
	s.Equal(rec.AddedBy, got.AddedBy)
	s.WithinDuration(rec.UpdatedAt, got.UpdatedAt, time.Second)

	existed, err := s.store.Delete(s.ctx, "@alice")
	s.Require().NoError(err)
	s.True(existed)

	_, err = s.store.FindAny(s.ctx, "@alice")
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertReplaces() {
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "EscrowCo", Network: "mainnet", UpdatedAt: now}))
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "OtherCo", UpdatedAt: now}))

	rec, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal("OtherCo", rec.Service)
	s.Empty(rec.Network)
}

func (s *PostgresStoreSuite) TestFindAnyCandidateOrder() {
	now := time.Now().UTC()
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@bobross", Service: "Legacy", UpdatedAt: now}))
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@bob-ross", Service: "Hyphen", UpdatedAt: now}))

	rec, err := s.store.FindAny(s.ctx, "@bob_ross", "@bobross", "@bob-ross")
	s.Require().NoError(err)
	s.Equal("Legacy", rec.Service)
}
