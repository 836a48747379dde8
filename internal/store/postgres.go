package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/trialmap/internal/db"
	"github.com/sells-group/trialmap/pkg/geocode"
)

// PostgresStore persists geocode cache entries in postgres, for deployments
// where several operators share one cache.
type PostgresStore struct {
	pool db.Pool
}

// NewPostgres wraps an existing pool. The store owns the pool and closes it.
func NewPostgres(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query      TEXT PRIMARY KEY,
	place_name TEXT,
	latitude   DOUBLE PRECISION,
	longitude  DOUBLE PRECISION,
	matched    BOOLEAN NOT NULL DEFAULT FALSE,
	failed     BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Get implements geocode.Cache.
func (s *PostgresStore) Get(ctx context.Context, query string) (*geocode.CachedResult, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT place_name, latitude, longitude, matched, failed FROM geocode_cache WHERE query = $1`,
		query,
	)

	var (
		name     sql.NullString
		lat, lon sql.NullFloat64
		matched  bool
		failed   bool
	)
	err := row.Scan(&name, &lat, &lon, &matched, &failed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "postgres: get cache entry")
	}

	entry := &geocode.CachedResult{Failed: failed}
	if !failed {
		entry.Result = &geocode.Result{
			Name:      name.String,
			Latitude:  lat.Float64,
			Longitude: lon.Float64,
			Matched:   matched,
		}
	}
	return entry, true, nil
}

// Put implements geocode.Cache. Re-resolving a query overwrites its entry.
func (s *PostgresStore) Put(ctx context.Context, query string, res *geocode.CachedResult) error {
	var (
		name     sql.NullString
		lat, lon sql.NullFloat64
		matched  bool
	)
	if res.Result != nil {
		name = sql.NullString{String: res.Result.Name, Valid: res.Result.Name != ""}
		lat = sql.NullFloat64{Float64: res.Result.Latitude, Valid: res.Result.Matched}
		lon = sql.NullFloat64{Float64: res.Result.Longitude, Valid: res.Result.Matched}
		matched = res.Result.Matched
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO geocode_cache (query, place_name, latitude, longitude, matched, failed, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (query) DO UPDATE SET
			place_name = EXCLUDED.place_name,
			latitude   = EXCLUDED.latitude,
			longitude  = EXCLUDED.longitude,
			matched    = EXCLUDED.matched,
			failed     = EXCLUDED.failed,
			updated_at = EXCLUDED.updated_at`,
		query, name, lat, lon, matched, res.Failed, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: put cache entry")
}
