// Package geo resolves addresses to coordinates and back via the
// Nominatim (OpenStreetMap) HTTP API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Result is a resolved location.
type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Country          string  `json:"country,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`
}

// Suggestion is one autocomplete candidate for a partial address query.
type Suggestion struct {
	Result
	Type       string  `json:"type,omitempty"`
	Importance float64 `json:"importance"`
}

// Client calls the Nominatim API. Nominatim requires a User-Agent
// identifying the application.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

type nominatimResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Address     struct {
		City     string `json:"city"`
		Town     string `json:"town"`
		Village  string `json:"village"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Geocode resolves a free-form address to coordinates. Returns (nil, nil)
// when the address produced no match.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	results, err := c.search(ctx, address, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	r, err := results[0].toResult()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ZipCoordinates resolves a US zip code to coordinates.
func (c *Client) ZipCoordinates(ctx context.Context, zipCode string) (*Result, error) {
	return c.Geocode(ctx, zipCode+", USA")
}

// Suggest returns up to limit address candidates for a partial query,
// sorted by descending importance.
func (c *Client) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	if limit <= 0 {
		limit = 5
	}
	results, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	suggestions := make([]Suggestion, 0, len(results))
	for _, nr := range results {
		r, err := nr.toResult()
		if err != nil {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Result:     *r,
			Type:       nr.Type,
			Importance: nr.Importance,
		})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Importance > suggestions[j].Importance
	})
	return suggestions, nil
}

// ReverseGeocode resolves coordinates to address components. Returns
// (nil, nil) when nothing is known about the location.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*Result, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	var nr nominatimResult
	if err := c.get(ctx, "/reverse", q, &nr); err != nil {
		return nil, err
	}
	if nr.DisplayName == "" {
		return nil, nil
	}
	return &Result{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: nr.DisplayName,
		City:             nr.city(),
		State:            nr.Address.State,
		Country:          nr.Address.Country,
		PostalCode:       nr.Address.Postcode,
	}, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]nominatimResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("addressdetails", "1")

	var results []nominatimResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding endpoint returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	return nil
}

func (nr *nominatimResult) toResult() (*Result, error) {
	lat, err := strconv.ParseFloat(nr.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", nr.Lat, err)
	}
	lng, err := strconv.ParseFloat(nr.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", nr.Lon, err)
	}
	return &Result{
		Lat:              lat,
		Lng:              lng,
		FormattedAddress: nr.DisplayName,
		City:             nr.city(),
		State:            nr.Address.State,
		Country:          nr.Address.Country,
		PostalCode:       nr.Address.Postcode,
	}, nil
}

func (nr *nominatimResult) city() string {
	switch {
	case nr.Address.City != "":
		return nr.Address.City
	case nr.Address.Town != "":
		return nr.Address.Town
	default:
		return nr.Address.Village
	}
}
