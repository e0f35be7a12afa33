package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapcircle/swapcircle-api/internal/geo"
)

type stubGeocodeProvider struct {
	suggestions []geo.Suggestion
	reverse     *geo.Result
}

func (s *stubGeocodeProvider) Suggest(_ context.Context, _ string, _ int) ([]geo.Suggestion, error) {
	return s.suggestions, nil
}

func (s *stubGeocodeProvider) ReverseGeocode(_ context.Context, _, _ float64) (*geo.Result, error) {
	return s.reverse, nil
}

func geoApp(provider GeocodeProvider) *fiber.App {
	app := fiber.New()
	h := NewGeoHandler(provider)
	api := app.Group("/api", asUser("alice"))
	api.Get("/geocode/suggest", h.Suggest)
	api.Get("/geocode/reverse", h.Reverse)
	return app
}

func TestGeocodeSuggest(t *testing.T) {
	provider := &stubGeocodeProvider{suggestions: []geo.Suggestion{
		{Result: geo.Result{FormattedAddress: "Portland, OR"}, Importance: 0.9},
	}}
	app := geoApp(provider)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/suggest?q=port", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Suggestions []geo.Suggestion `json:"suggestions"`
	}
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "Portland, OR", body.Suggestions[0].FormattedAddress)
}

func TestGeocodeSuggestValidation(t *testing.T) {
	app := geoApp(&stubGeocodeProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/suggest", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/suggest?q=port&limit=-2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGeocodeReverse(t *testing.T) {
	provider := &stubGeocodeProvider{reverse: &geo.Result{City: "Portland", State: "Oregon"}}
	app := geoApp(provider)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=45.5&lng=-122.6", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result geo.Result
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Portland", result.City)
}

func TestGeocodeReverseUnknownLocation(t *testing.T) {
	app := geoApp(&stubGeocodeProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=0&lng=0", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/geocode/reverse?lat=abc&lng=0", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
