// Package geocode provides free-text place lookup via the Google Places
// text-search API, fronted by a run-scoped deduplicating cache.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client resolves a free-text query to at most one place.
type Client interface {
	// Lookup returns the best candidate for the query. A query that
	// resolves to nothing returns a Result with Matched=false and a nil
	// error; errors are reserved for transport/API failures.
	Lookup(ctx context.Context, query string) (*Result, error)
}

// Result holds the geocoding output for one query.
type Result struct {
	Name      string
	Latitude  float64
	Longitude float64
	Matched   bool
}

// Option configures the client.
type Option func(*placesClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *placesClient) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for Places calls.
func WithRateLimit(rps float64) Option {
	return func(c *placesClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBaseURL overrides the Places endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *placesClient) {
		c.baseURL = u
	}
}

// NewClient creates a Places text-search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &placesClient{
		apiKey:     apiKey,
		baseURL:    defaultPlacesURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
