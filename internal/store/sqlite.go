package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/trialmap/pkg/geocode"
)

// SQLiteStore persists geocode cache entries using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query      TEXT PRIMARY KEY,
	place_name TEXT,
	latitude   REAL,
	longitude  REAL,
	matched    INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get implements geocode.Cache.
func (s *SQLiteStore) Get(ctx context.Context, query string) (*geocode.CachedResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT place_name, latitude, longitude, matched, failed FROM geocode_cache WHERE query = ?`,
		query,
	)

	var (
		name     sql.NullString
		lat, lon sql.NullFloat64
		matched  bool
		failed   bool
	)
	err := row.Scan(&name, &lat, &lon, &matched, &failed)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: get cache entry")
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
func (s *SQLiteStore) Put(ctx context.Context, query string, res *geocode.CachedResult) error {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (query, place_name, latitude, longitude, matched, failed, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(query) DO UPDATE SET
			place_name = excluded.place_name,
			latitude   = excluded.latitude,
			longitude  = excluded.longitude,
			matched    = excluded.matched,
			failed     = excluded.failed,
			updated_at = excluded.updated_at`,
		query, name, lat, lon, matched, res.Failed, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: put cache entry")
}
