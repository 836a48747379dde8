package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultPlacesURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// placesResponse is the JSON response from the Places text-search API.
type placesResponse struct {
	Results []placesResult `json:"results"`
	Status  string         `json:"status"`
}

type placesResult struct {
	Name     string `json:"name"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type placesClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Lookup implements Client against the Places text-search endpoint.
func (c *placesClient) Lookup(ctx context.Context, query string) (*Result, error) {
	if c.apiKey == "" {
		return nil, eris.New("geocode: places api key not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limit")
	}

	params := url.Values{
		"query": {query},
		"key":   {c.apiKey},
	}

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: places request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: places returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read body")
	}

	var placesResp placesResponse
	if err := json.Unmarshal(body, &placesResp); err != nil {
		return nil, eris.Wrap(err, "geocode: parse response")
	}

	// ZERO_RESULTS is a valid answer, not a failure.
	if placesResp.Status != "OK" && placesResp.Status != "ZERO_RESULTS" {
		return nil, eris.Errorf("geocode: places status %s", placesResp.Status)
	}
	if len(placesResp.Results) == 0 {
		return &Result{Matched: false}, nil
	}

	best := placesResp.Results[0]
	return &Result{
		Name:      best.Name,
		Latitude:  best.Geometry.Location.Lat,
		Longitude: best.Geometry.Location.Lng,
		Matched:   true,
	}, nil
}
