package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "swapcircle-tests/1.0", 5*time.Second)
}

func TestGeocode(t *testing.T) {
	var gotQuery, gotUserAgent string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotUserAgent = r.Header.Get("User-Agent")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"lat": "45.5349",
			"lon": "-122.7214",
			"display_name": "Northwest District, Portland, Oregon, USA",
			"address": {"city": "Portland", "state": "Oregon", "country": "United States", "postcode": "97210"}
		}]`))
	})

	result, err := client.Geocode(context.Background(), "NW 23rd Ave, Portland")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "NW 23rd Ave, Portland", gotQuery)
	assert.Equal(t, "swapcircle-tests/1.0", gotUserAgent)
	assert.InDelta(t, 45.5349, result.Lat, 1e-9)
	assert.InDelta(t, -122.7214, result.Lng, 1e-9)
	assert.Equal(t, "Portland", result.City)
	assert.Equal(t, "Oregon", result.State)
	assert.Equal(t, "97210", result.PostalCode)
}

func TestGeocodeNoMatch(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	result, err := client.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGeocodeServerError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Geocode(context.Background(), "anywhere")
	assert.Error(t, err)
}

func TestZipCoordinatesAppendsCountry(t *testing.T) {
	var gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "45.53", "lon": "-122.72", "display_name": "97210, USA", "address": {}}]`))
	})

	result, err := client.ZipCoordinates(context.Background(), "97210")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "97210, USA", gotQuery)
}

func TestSuggestSortsByImportance(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"lat": "1", "lon": "1", "display_name": "minor place", "importance": 0.2, "type": "hamlet", "address": {}},
			{"lat": "2", "lon": "2", "display_name": "major place", "importance": 0.9, "type": "city", "address": {}}
		]`))
	})

	suggestions, err := client.Suggest(context.Background(), "place", 5)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "major place", suggestions[0].FormattedAddress)
	assert.Equal(t, "minor place", suggestions[1].FormattedAddress)
}

func TestReverseGeocode(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "45.5152", r.URL.Query().Get("lat"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"lat": "45.5152",
			"lon": "-122.6784",
			"display_name": "Portland, Oregon, USA",
			"address": {"town": "Portlandia", "state": "Oregon", "country": "United States"}
		}`))
	})

	result, err := client.ReverseGeocode(context.Background(), 45.5152, -122.6784)
	require.NoError(t, err)
	require.NotNil(t, result)
	// The town field fills in when no city is present.
	assert.Equal(t, "Portlandia", result.City)
	assert.Equal(t, "Portland, Oregon, USA", result.FormattedAddress)
}

func TestReverseGeocodeUnknownLocation(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	})

	result, err := client.ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, result)
}
