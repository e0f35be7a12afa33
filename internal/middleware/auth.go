package middleware

import (
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	golangjwt "github.com/golang-jwt/jwt/v5"

	"github.com/swapcircle/swapcircle-api/internal/identity"
)

// RequireAuth validates the Authorization bearer token against the identity
// provider key set. Signature checking happens in the JWT middleware; the
// verifier then enforces algorithm, issuer, audience and expiry and stashes
// the extracted claims in the request locals.
func RequireAuth(verifier *identity.Verifier) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc: verifier.Keyfunc(),
		SuccessHandler: func(c *fiber.Ctx) error {
			raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
			claims, err := verifier.Verify(raw)
			if err != nil {
				return unauthorized(c, err)
			}
			c.Locals("identity", claims)
			return c.Next()
		},
		ErrorHandler: unauthorized,
	})
}

func unauthorized(c *fiber.Ctx, _ error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "invalid or missing authorization token",
	})
}

// CurrentClaims returns the identity claims for the authenticated request.
func CurrentClaims(c *fiber.Ctx) (*identity.Claims, error) {
	if claims, ok := c.Locals("identity").(*identity.Claims); ok {
		return claims, nil
	}
	token, ok := c.Locals("user").(*golangjwt.Token)
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	mapClaims, ok := token.Claims.(golangjwt.MapClaims)
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return identity.FromMapClaims(mapClaims)
}

// CurrentUserID returns the identity-provider subject of the caller.
func CurrentUserID(c *fiber.Ctx) (string, error) {
	claims, err := CurrentClaims(c)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
