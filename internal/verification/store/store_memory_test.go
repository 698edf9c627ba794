package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vouch/internal/verification/models"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestFindAny() {
	s.Run("miss on empty store", func() {
		_, err := s.store.FindAny(s.ctx, "@alice")
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("first candidate wins", func() {
		s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@ali_ce", Service: "EscrowCo"}))
		s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "OtherCo"}))

		rec, err := s.store.FindAny(s.ctx, "@ali_ce", "@alice")
		s.Require().NoError(err)
		s.Equal("EscrowCo", rec.Service)
	})

	s.Run("legacy key hit through later candidate", func() {
		s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@bobross", Service: "PaintCo"}))

		rec, err := s.store.FindAny(s.ctx, "@bob_ross", "@bobross", "@bob-ross")
		s.Require().NoError(err)
		s.Equal("@bobross", rec.Username)
	})
}

func (s *InMemoryStoreSuite) TestSaveReplacesInFull() {
	now := time.Now()
	s.Require().NoError(s.store.Save(s.ctx, models.Record{
		Username: "@alice", Service: "EscrowCo", Network: "mainnet", UpdatedAt: now,
	}))
	s.Require().NoError(s.store.Save(s.ctx, models.Record{
		Username: "@alice", Service: "OtherCo", UpdatedAt: now,
	}))

	rec, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal("OtherCo", rec.Service)
	s.Empty(rec.Network, "upsert replaces the whole record")
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Save(s.ctx, models.Record{Username: "@alice", Service: "EscrowCo"}))

	existed, err := s.store.Delete(s.ctx, "@alice")
	s.Require().NoError(err)
	s.True(existed)

	_, err = s.store.FindAny(s.ctx, "@alice")
	s.Require().ErrorIs(err, ErrNotFound)

	existed, err = s.store.Delete(s.ctx, "@alice")
	s.Require().NoError(err)
	s.False(existed)
}

func (s *InMemoryStoreSuite) TestConcurrentAccess() {
	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func(i int) {
			defer wg.Done()
			rec := models.Record{Username: "@alice", Service: "EscrowCo"}
			if i%2 == 0 {
				_ = s.store.Save(s.ctx, rec)
			} else {
				_, _ = s.store.FindAny(s.ctx, "@alice")
			}
		}(i)
	}
	wg.Wait()

	rec, err := s.store.FindAny(s.ctx, "@alice")
	s.Require().NoError(err)
	s.Equal("EscrowCo", rec.Service)
}
