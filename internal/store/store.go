// Package store provides persistent backends for the geocoding cache, so
// repeated runs do not re-pay for queries already answered.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trialmap/internal/config"
	"github.com/sells-group/trialmap/internal/db"
	"github.com/sells-group/trialmap/pkg/geocode"
)

// CacheStore is a geocode cache with a lifecycle. Both backends satisfy
// geocode.Cache, so the pipeline is indifferent to where entries live.
type CacheStore interface {
	geocode.Cache
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the cache backend named by cfg and runs its migration. The
// memory driver returns a nil CacheStore; the caller should fall back to a
// run-scoped geocode.MemoryCache.
func Open(ctx context.Context, cfg config.GeocodeConfig) (CacheStore, error) {
	switch cfg.CacheDriver {
	case "", "memory":
		return nil, nil
	case "sqlite":
		s, err := NewSQLite(cfg.CachePath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s := NewPostgres(pool)
		if err := s.Migrate(ctx); err != nil {
			s.Close() //nolint:errcheck
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("store: unknown cache driver %q", cfg.CacheDriver)
	}
}
