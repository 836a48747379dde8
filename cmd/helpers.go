package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trialmap/internal/pipeline"
	"github.com/sells-group/trialmap/internal/store"
	"github.com/sells-group/trialmap/pkg/ctgov"
	"github.com/sells-group/trialmap/pkg/geocode"
)

// loadRules reads the rules overlay named in config, falling back to the
// built-in defaults.
func loadRules() (*pipeline.Rules, error) {
	return pipeline.LoadRules(cfg.Pipeline.RulesPath)
}

func detailOptions() pipeline.DetailOptions {
	return pipeline.DetailOptions{Country: cfg.Pipeline.Country}
}

func registryClient() ctgov.Client {
	return ctgov.NewClient(
		ctgov.WithBaseURL(cfg.Registry.BaseURL),
		ctgov.WithPageSize(cfg.Registry.PageSize),
		ctgov.WithRateLimit(cfg.Registry.RateLimit),
		ctgov.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Registry.TimeoutSecs) * time.Second,
		}),
	)
}

// geocoder builds the cached geocode client from config. The returned close
// function releases the persistent cache backend, if any.
func geocoder(ctx context.Context) (*geocode.CachedClient, func(), error) {
	client := geocode.NewClient(cfg.Geocode.GoogleAPIKey,
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithRateLimit(cfg.Geocode.RateLimit),
		geocode.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Geocode.TimeoutSecs) * time.Second,
		}),
	)

	backend, err := store.Open(ctx, cfg.Geocode)
	if err != nil {
		return nil, nil, err
	}

	var cache geocode.Cache
	closeFn := func() {}
	if backend != nil {
		cache = backend
		closeFn = func() {
			if err := backend.Close(); err != nil {
				zap.L().Warn("close geocode cache", zap.Error(err))
			}
		}
		zap.L().Info("geocode cache ready", zap.String("driver", cfg.Geocode.CacheDriver))
	} else {
		cache = geocode.NewMemoryCache()
	}

	return geocode.NewCachedClient(client, cache), closeFn, nil
}
