// Package geocode resolves postal addresses to coordinates through the
// LocationIQ search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/msomdec/placeshare/internal/domain"
)

// DefaultBaseURL is the LocationIQ forward-geocoding endpoint.
const DefaultBaseURL = "https://eu1.locationiq.com/v1/search.php"

const notFoundMessage = "Could not find location for the specified address."

// Client calls the geocoding service. It makes exactly one request per
// lookup and keeps no state between calls.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ domain.Geocoder = (*Client)(nil)

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// result is one entry of the search response. lat and lon arrive as strings.
type result struct {
	Lat    string `json:"lat"`
	Lon    string `json:"lon"`
	Status string `json:"status"`
}

// Geocode returns the coordinates of the first match for address.
// It fails with a KindGeocode error when the service has no match.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Location, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", address)
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	// LocationIQ answers 404 {"error":"Unable to geocode"} when nothing matches.
	if resp.StatusCode == http.StatusNotFound {
		return domain.Location{}, domain.NewError(domain.KindGeocode, notFoundMessage)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Location{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Location{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(results) == 0 || results[0].Status == "ZERO_RESULTS" {
		return domain.Location{}, domain.NewError(domain.KindGeocode, notFoundMessage)
	}

	return domain.Location{Lat: results[0].Lat, Lng: results[0].Lon}, nil
}
