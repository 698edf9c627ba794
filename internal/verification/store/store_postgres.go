package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"vouch/internal/platform/metrics"
	"vouch/internal/verification/models"
	dErrors "vouch/pkg/domain-errors"
)

// PostgresStore persists records in a verified_users table for deployments
// that already run PostgreSQL instead of Redis.
type PostgresStore struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, metrics: m}
}

const schema = `
CREATE TABLE IF NOT EXISTS verified_users (
    username   TEXT PRIMARY KEY,
    service    TEXT NOT NULL,
    network    TEXT NOT NULL DEFAULT '',
    added_by   TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the backing table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure verified_users schema: %w", err)
	}
	return nil
}

// FindAny fetches every candidate row in one query, then picks the first
// match in candidate order (key preference is the caller's, not the DB's).
func (s *PostgresStore) FindAny(ctx context.Context, keys ...string) (models.Record, error) {
	if len(keys) == 0 {
		return models.Record{}, ErrNotFound
	}
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("postgres", "find", float64(time.Since(start).Microseconds())/1000.0)
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT username, service, network, added_by, updated_at
		   FROM verified_users WHERE username = ANY($1)`,
		pq.Array(keys))
	if err != nil {
		return models.Record{}, dErrors.Wrap(dErrors.CodeUnavailable, "query verified_users", err)
	}
	defer rows.Close()

	found := make(map[string]models.Record, len(keys))
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.Username, &rec.Service, &rec.Network, &rec.AddedBy, &rec.UpdatedAt); err != nil {
			return models.Record{}, dErrors.Wrap(dErrors.CodeInternal, "scan verified_users row", err)
		}
		found[rec.Username] = rec
	}
	if err := rows.Err(); err != nil {
		return models.Record{}, dErrors.Wrap(dErrors.CodeUnavailable, "iterate verified_users rows", err)
	}

	for _, key := range keys {
		if rec, ok := found[key]; ok {
			return rec, nil
		}
	}
	return models.Record{}, ErrNotFound
}

func (s *PostgresStore) Save(ctx context.Context, rec models.Record) error {
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("postgres", "save", float64(time.Since(start).Microseconds())/1000.0)
	}()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verified_users (username, service, network, added_by, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO UPDATE
		    SET service = EXCLUDED.service,
		        network = EXCLUDED.network,
		        added_by = EXCLUDED.added_by,
		        updated_at = EXCLUDED.updated_at`,
		rec.Username, rec.Service, rec.Network, rec.AddedBy, rec.UpdatedAt)
	if err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "upsert verified_users", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveStoreOp("postgres", "delete", float64(time.Since(start).Microseconds())/1000.0)
	}()

	res, err := s.db.ExecContext(ctx, `DELETE FROM verified_users WHERE username = $1`, key)
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeUnavailable, "delete verified_users", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dErrors.Wrap(dErrors.CodeInternal, "rows affected", err)
	}
	return n > 0, nil
}
