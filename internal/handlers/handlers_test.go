package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	golangjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapcircle/swapcircle-api/internal/geo"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/services"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

// asUser injects verified-looking claims the way the JWT middleware does,
// so handlers can be exercised without a key set.
func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &golangjwt.Token{Claims: golangjwt.MapClaims{
			"sub":   userID,
			"email": userID + "@example.com",
		}})
		return c.Next()
	}
}

type nullGeocoder struct{}

func (nullGeocoder) Geocode(context.Context, string) (*geo.Result, error)        { return nil, nil }
func (nullGeocoder) ZipCoordinates(context.Context, string) (*geo.Result, error) { return nil, nil }

type nullCleaner struct{}

func (nullCleaner) Delete(context.Context, string) error { return nil }

type apiFixture struct {
	mem *store.Memory

	swapHandler    *SwapHandler
	messageHandler *MessageHandler
	listingHandler *ListingHandler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	mem := store.NewMemory()

	moderation := services.NewModerationService(mem)
	messages := services.NewMessageService(mem)
	listings := services.NewListingService(mem, mem, nullGeocoder{}, nullCleaner{}, 25)
	swaps := services.NewSwapService(mem, mem, mem, messages)

	return &apiFixture{
		mem:            mem,
		swapHandler:    NewSwapHandler(swaps),
		messageHandler: NewMessageHandler(messages, swaps, moderation),
		listingHandler: NewListingHandler(listings, moderation),
	}
}

// appFor builds the route surface with every request authenticated as userID.
func (f *apiFixture) appFor(userID string) *fiber.App {
	app := fiber.New()
	api := app.Group("/api", asUser(userID))
	api.Post("/swaps", f.swapHandler.Create)
	api.Get("/swaps/:id", f.swapHandler.Get)
	api.Post("/swaps/:id/accept", f.swapHandler.Accept)
	api.Get("/messages/swap/:swapId", f.messageHandler.ListForSwap)
	api.Post("/messages/swap/:swapId", f.messageHandler.Post)
	api.Get("/listings/search", f.listingHandler.Search)
	return app
}

func (f *apiFixture) seedSwapParties(t *testing.T) (requesterListing, ownerListing models.Listing) {
	t.Helper()
	require.NoError(t, f.mem.CreateUser(&models.User{ID: "alice", Email: "alice@example.com", IsActive: true}))
	require.NoError(t, f.mem.CreateUser(&models.User{ID: "bob", Email: "bob@example.com", IsActive: true}))

	requesterListing = models.Listing{ID: uuid.New(), UserID: "alice", Title: "Scarf", Status: models.ListingStatusActive}
	ownerListing = models.Listing{ID: uuid.New(), UserID: "bob", Title: "Beanie", Status: models.ListingStatusActive}
	require.NoError(t, f.mem.CreateListing(&requesterListing))
	require.NoError(t, f.mem.CreateListing(&ownerListing))
	return requesterListing, ownerListing
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (f *apiFixture) createSwap(t *testing.T, requesterListing, ownerListing models.Listing) models.Swap {
	t.Helper()
	resp := doRequest(t, f.appFor("alice"), http.MethodPost, "/api/swaps", map[string]interface{}{
		"owner_id":             "bob",
		"owner_listing_id":     ownerListing.ID,
		"requester_listing_id": requesterListing.ID,
		"message":              "trade?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Swap
	decodeInto(t, resp, &created)
	return created
}

func TestSwapLifecycleOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	requesterListing, ownerListing := f.seedSwapParties(t)
	created := f.createSwap(t, requesterListing, ownerListing)
	assert.Equal(t, models.SwapStatusPending, created.Status)

	bob := f.appFor("bob")
	resp := doRequest(t, bob, http.MethodPost, fmt.Sprintf("/api/swaps/%s/accept", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Accepting notifies both participants in the swap conversation.
	resp = doRequest(t, bob, http.MethodGet, fmt.Sprintf("/api/messages/swap/%s", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msgs []models.Message
	decodeInto(t, resp, &msgs)
	assert.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.True(t, m.IsSystem())
	}
}

func TestSwapAccessIsConflatedToNotFound(t *testing.T) {
	f := newAPIFixture(t)
	requesterListing, ownerListing := f.seedSwapParties(t)
	created := f.createSwap(t, requesterListing, ownerListing)

	// A stranger sees 404, not 403, for the swap and its conversation.
	mallory := f.appFor("mallory")
	resp := doRequest(t, mallory, http.MethodGet, fmt.Sprintf("/api/swaps/%s", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doRequest(t, mallory, http.MethodGet, fmt.Sprintf("/api/messages/swap/%s", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMessagePostRejectsContactInfo(t *testing.T) {
	f := newAPIFixture(t)
	requesterListing, ownerListing := f.seedSwapParties(t)
	created := f.createSwap(t, requesterListing, ownerListing)

	alice := f.appFor("alice")
	resp := doRequest(t, alice, http.MethodPost, fmt.Sprintf("/api/messages/swap/%s", created.ID),
		map[string]interface{}{"content": "text me at 503-555-0147"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, alice, http.MethodPost, fmt.Sprintf("/api/messages/swap/%s", created.ID),
		map[string]interface{}{"content": "is it still available?"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSearchRequiresResolvableOrigin(t *testing.T) {
	f := newAPIFixture(t)
	f.seedSwapParties(t)
	alice := f.appFor("alice")

	resp := doRequest(t, alice, http.MethodGet, "/api/listings/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, alice, http.MethodGet, "/api/listings/search?radius=banana", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
