// Package ctgov is a client for the ClinicalTrials.gov v2 studies API.
package ctgov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/trialmap/internal/model"
)

const defaultBaseURL = "https://clinicaltrials.gov/api/v2/studies"

// requested top-level fields; protocolSection carries eligibility and
// locations, resultsSection the baseline race measures.
const searchFields = "NCTId,protocolSection,resultsSection"

// Client fetches studies matching an eligibility keyword.
type Client interface {
	// Search pages through every study whose eligibility criteria mention
	// keyword and that has a location in country. A mid-pagination error
	// returns the pages fetched so far alongside the error.
	Search(ctx context.Context, keyword, country string) ([]model.StudyRecord, error)
}

type client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *client) {
		c.baseURL = u
	}
}

// WithPageSize sets the page size for search pagination.
func WithPageSize(n int) Option {
	return func(c *client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a registry client with sane defaults.
func NewClient(opts ...Option) Client {
	c := &client{
		baseURL:    defaultBaseURL,
		pageSize:   100,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(3, 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Search(ctx context.Context, keyword, country string) ([]model.StudyRecord, error) {
	term := fmt.Sprintf(
		"AREA[EligibilityCriteria](%s) AND SEARCH[Location](AREA[LocationCountry]%q)",
		keyword, country,
	)

	var studies []model.StudyRecord
	pageToken := ""
	for page := 1; ; page++ {
		resp, err := c.searchPage(ctx, term, pageToken)
		if err != nil {
			// Keep whatever we already have; the caller decides whether a
			// partial dataset is usable.
			return studies, eris.Wrapf(err, "ctgov: search page %d", page)
		}

		studies = append(studies, resp.Studies...)
		zap.L().Debug("ctgov: fetched page",
			zap.Int("page", page),
			zap.Int("studies", len(resp.Studies)),
			zap.Int("total", len(studies)),
		)

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	zap.L().Info("ctgov: search complete",
		zap.String("keyword", keyword),
		zap.String("country", country),
		zap.Int("studies", len(studies)),
	)
	return studies, nil
}

func (c *client) searchPage(ctx context.Context, term, pageToken string) (*model.SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "rate limit")
	}

	params := url.Values{
		"query.term": {term},
		"fields":     {searchFields},
		"pageSize":   {fmt.Sprintf("%d", c.pageSize)},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var search model.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, eris.Wrap(err, "decode response")
	}
	return &search, nil
}
