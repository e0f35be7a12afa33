package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/swapcircle/swapcircle-api/internal/handlers"
	"github.com/swapcircle/swapcircle-api/internal/identity"
	"github.com/swapcircle/swapcircle-api/internal/middleware"
)

func Setup(
	app *fiber.App,
	verifier *identity.Verifier,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	listingHandler *handlers.ListingHandler,
	swapHandler *handlers.SwapHandler,
	messageHandler *handlers.MessageHandler,
	uploadHandler *handlers.UploadHandler,
	moderationHandler *handlers.ModerationHandler,
	geoHandler *handlers.GeoHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no auth required)
	api.Get("/health", healthHandler.Check)

	auth := middleware.RequireAuth(verifier)

	// Profile bootstrap and self view
	api.Post("/auth/signup", auth, userHandler.Signup)
	api.Get("/auth/me", auth, userHandler.Me)

	// Users
	users := api.Group("/users", auth)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)
	users.Get("/:id/listings", userHandler.Listings)

	// Listings
	listings := api.Group("/listings", auth)
	listings.Post("/", listingHandler.Create)
	listings.Get("/", listingHandler.List)
	listings.Get("/search", listingHandler.Search)
	listings.Get("/:id", listingHandler.Get)
	listings.Put("/:id", listingHandler.Update)
	listings.Delete("/:id", listingHandler.Delete)

	// Swaps
	swaps := api.Group("/swaps", auth)
	swaps.Post("/", swapHandler.Create)
	swaps.Get("/", swapHandler.List)
	swaps.Get("/pending", swapHandler.Pending)
	swaps.Get("/history", swapHandler.History)
	swaps.Get("/listing/:listingId", swapHandler.ByListing)
	swaps.Get("/:id", swapHandler.Get)
	swaps.Put("/:id", swapHandler.Update)
	swaps.Delete("/:id", swapHandler.Delete)
	swaps.Post("/:id/accept", swapHandler.Accept)
	swaps.Post("/:id/reject", swapHandler.Reject)
	swaps.Post("/:id/complete", swapHandler.Complete)

	// Messages
	messages := api.Group("/messages", auth)
	messages.Get("/unread", messageHandler.Unread)
	messages.Get("/swap/:swapId", messageHandler.ListForSwap)
	messages.Post("/swap/:swapId", messageHandler.Post)
	messages.Put("/:id/read", messageHandler.MarkRead)
	messages.Delete("/:id", messageHandler.Delete)

	// Uploads get a stricter limit, image traffic is expensive
	uploads := api.Group("/uploads", auth)
	uploads.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	uploads.Get("/signature", uploadHandler.Signature)
	uploads.Post("/images", uploadHandler.UploadImages)

	// Geocoding helpers for address forms
	geocode := api.Group("/geocode", auth)
	geocode.Get("/suggest", geoHandler.Suggest)
	geocode.Get("/reverse", geoHandler.Reverse)

	// Moderation
	api.Post("/reports", auth, moderationHandler.CreateReport)
	api.Post("/blocks", auth, moderationHandler.BlockUser)
	api.Delete("/blocks/:id", auth, moderationHandler.UnblockUser)
}
