// Package identity verifies bearer tokens minted by the external identity
// provider. The provider's subject claim is the user identifier everywhere
// in this system.
package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired identity token")

// Claims is the subset of identity-provider claims the backend consumes.
type Claims struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
}

// Verifier validates RS256 tokens against the provider's published JWKS.
type Verifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

// NewVerifier fetches the provider key set and keeps it refreshed in the
// background for the life of the process.
func NewVerifier(jwksURL, issuer, audience string, refresh time.Duration) (*Verifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   refresh,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Error("identity key set refresh failed", "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity key set: %w", err)
	}
	return &Verifier{jwks: jwks, issuer: issuer, audience: audience}, nil
}

// Keyfunc exposes the JWKS-backed key resolver for the HTTP auth middleware.
func (v *Verifier) Keyfunc() jwt.Keyfunc {
	return v.jwks.Keyfunc
}

// Verify parses and validates a raw bearer token and extracts its claims.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	token, err := jwt.Parse(raw, v.jwks.Keyfunc, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return FromMapClaims(mapClaims)
}

// FromMapClaims extracts the consumed claims from an already-verified token.
func FromMapClaims(mc jwt.MapClaims) (*Claims, error) {
	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidToken
	}
	c := &Claims{Subject: sub}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if given, ok := mc["given_name"].(string); ok {
		c.FirstName = given
	}
	if family, ok := mc["family_name"].(string); ok {
		c.LastName = family
	}
	return c, nil
}
