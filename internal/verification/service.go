// Package verification implements the verification registry: normalized
// identity keys mapped to the current verification record, with legacy key
// fallback on reads.
package verification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vouch/internal/identity"
	"vouch/internal/verification/models"
	"vouch/internal/verification/store"
	dErrors "vouch/pkg/domain-errors"
)

// Service wraps a record store with identity normalization and metadata
// defaulting. All writes target the canonical key; reads probe legacy
// variants for records written before normalization was tightened.
type Service struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a verification service over the given store.
func New(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Check resolves rawIdentity to its record, probing legacy key variants in
// order. Absent records surface CodeNotFound. Side-effect free.
func (s *Service) Check(ctx context.Context, rawIdentity string) (models.Record, error) {
	key := identity.Normalize(rawIdentity)
	rec, err := s.store.FindAny(ctx, identity.LookupCandidates(key)...)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Record{}, dErrors.Newf(dErrors.CodeNotFound, "%s is not verified", key)
		}
		return models.Record{}, err
	}
	return rec.WithDefaults(), nil
}

// Verify upserts the record for rawIdentity under its canonical key only.
// Legacy variants are read compatibility, never write targets.
func (s *Service) Verify(ctx context.Context, rawIdentity, service, addedBy string) error {
	key := identity.Normalize(rawIdentity)
	rec := models.Record{
		Username:  key,
		Service:   service,
		AddedBy:   addedBy,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "save verification record", "username", key, "error", err)
		return err
	}
	s.logger.InfoContext(ctx, "verification record saved", "username", key, "service", service)
	return nil
}

// Revoke deletes the record under the canonical key, reporting whether one
// existed. A record stored only under a legacy variant is not reachable by
// Revoke; see DESIGN.md.
func (s *Service) Revoke(ctx context.Context, rawIdentity string) (bool, error) {
	key := identity.Normalize(rawIdentity)
	existed, err := s.store.Delete(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete verification record", "username", key, "error", err)
		return false, err
	}
	if existed {
		s.logger.InfoContext(ctx, "verification record removed", "username", key)
	}
	return existed, nil
}
