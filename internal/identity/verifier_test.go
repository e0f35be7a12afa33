package identity

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKID = "test-signing-key"

type keySet struct {
	key    *rsa.PrivateKey
	server *httptest.Server
}

// newKeySet generates a signing key and serves its public half as a JWKS
// document, standing in for the identity provider.
func newKeySet(t *testing.T) *keySet {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	n := base64.RawURLEncoding.EncodeToString(key.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes())
	doc := fmt.Sprintf(`{"keys":[{"kty":"RSA","use":"sig","alg":"RS256","kid":%q,"n":%q,"e":%q}]}`,
		testKID, n, e)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(server.Close)
	return &keySet{key: key, server: server}
}

func (ks *keySet) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKID
	raw, err := token.SignedString(ks.key)
	require.NoError(t, err)
	return raw
}

func (ks *keySet) verifier(t *testing.T, issuer, audience string) *Verifier {
	t.Helper()
	v, err := NewVerifier(ks.server.URL, issuer, audience, time.Minute)
	require.NoError(t, err)
	return v
}

func TestVerifyExtractsClaims(t *testing.T) {
	ks := newKeySet(t)
	v := ks.verifier(t, "https://issuer.test", "")

	raw := ks.sign(t, jwt.MapClaims{
		"iss":         "https://issuer.test",
		"sub":         "user-1",
		"email":       "user-1@example.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user-1@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.FirstName)
	assert.Equal(t, "Lovelace", claims.LastName)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	ks := newKeySet(t)
	v := ks.verifier(t, "https://issuer.test", "")

	cases := map[string]jwt.MapClaims{
		"wrong issuer": {
			"iss": "https://elsewhere.test",
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		},
		"expired": {
			"iss": "https://issuer.test",
			"sub": "user-1",
			"exp": time.Now().Add(-time.Hour).Unix(),
		},
		"missing expiry": {
			"iss": "https://issuer.test",
			"sub": "user-1",
		},
		"missing subject": {
			"iss": "https://issuer.test",
			"exp": time.Now().Add(time.Hour).Unix(),
		},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(ks.sign(t, claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestVerifyRejectsSymmetricAlgorithm(t *testing.T) {
	ks := newKeySet(t)
	v := ks.verifier(t, "https://issuer.test", "")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://issuer.test",
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = testKID
	raw, err := token.SignedString([]byte("shared secret"))
	require.NoError(t, err)

	_, err = v.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEnforcesAudienceWhenConfigured(t *testing.T) {
	ks := newKeySet(t)
	v := ks.verifier(t, "https://issuer.test", "swap-api")

	base := jwt.MapClaims{
		"iss": "https://issuer.test",
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	base["aud"] = "swap-api"
	_, err := v.Verify(ks.sign(t, base))
	assert.NoError(t, err)

	base["aud"] = "another-service"
	_, err = v.Verify(ks.sign(t, base))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromMapClaimsRequiresSubject(t *testing.T) {
	_, err := FromMapClaims(jwt.MapClaims{"email": "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
