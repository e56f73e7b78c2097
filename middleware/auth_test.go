package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"video-gallery/config"
	"video-gallery/constant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, key *rsa.PrivateKey, claims SessionClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(subject string) SessionClaims {
	now := time.Now()
	return SessionClaims{
		AuthorizedParty: "http://localhost:8080",
		SessionID:       "sess_1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
}

func TestVerify(t *testing.T) {
	key, pubPEM := newKey(t)
	otherKey, _ := newKey(t)

	verifier, err := NewVerifier(config.Clerk{JWTKey: pubPEM, AuthorizedParties: []string{"http://localhost:8080"}})
	require.NoError(t, err)

	userID, err := verifier.Verify(sign(t, key, validClaims("user_1")))
	require.NoError(t, err)
	assert.Equal(t, "user_1", userID)

	t.Run("expired", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(sign(t, key, claims))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("within leeway", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Second))
		_, err := verifier.Verify(sign(t, key, claims))
		assert.NoError(t, err)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := verifier.Verify(sign(t, otherKey, validClaims("user_1")))
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("hmac is refused", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user_1")).SignedString([]byte(pubPEM))
		require.NoError(t, err)
		_, err = verifier.Verify(token)
		assert.Error(t, err)
	})

	t.Run("unknown party", func(t *testing.T) {
		claims := validClaims("user_1")
		claims.AuthorizedParty = "https://evil.example"
		_, err := verifier.Verify(sign(t, key, claims))
		assert.ErrorIs(t, err, ErrUnauthorizedParty)
	})

	t.Run("no subject", func(t *testing.T) {
		_, err := verifier.Verify(sign(t, key, validClaims("")))
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("escaped newlines", func(t *testing.T) {
		v, err := NewVerifier(config.Clerk{JWTKey: strings.ReplaceAll(pubPEM, "\n", `\n`)})
		require.NoError(t, err)
		_, err = v.Verify(sign(t, key, validClaims("user_1")))
		assert.NoError(t, err)
	})
}

func TestVerifierWithoutKey(t *testing.T) {
	key, _ := newKey(t)
	verifier, err := NewVerifier(config.Clerk{})
	require.NoError(t, err)

	_, err = verifier.Verify(sign(t, key, validClaims("user_1")))
	assert.ErrorIs(t, err, ErrNoVerificationKey)

	_, err = NewVerifier(config.Clerk{JWTKey: "not a pem"})
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	key, pubPEM := newKey(t)
	verifier, err := NewVerifier(config.Clerk{JWTKey: pubPEM})
	require.NoError(t, err)
	token := sign(t, key, validClaims("user_42"))

	r := gin.New()
	r.Use(Authenticate(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	cases := []struct {
		name  string
		setup func(req *http.Request)
		want  string
	}{
		{name: "anonymous", setup: func(*http.Request) {}, want: ""},
		{name: "bearer", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) }, want: "user_42"},
		{name: "cookie", setup: func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: constant.SessionCookie, Value: token})
		}, want: "user_42"},
		{name: "garbage", setup: func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestRequireUser(t *testing.T) {
	r := gin.New()
	r.GET("/page", RequireUser("/sign-up"), func(c *gin.Context) { c.String(http.StatusOK, "page") })
	r.GET("/api", RequireAPIUser(), func(c *gin.Context) { c.String(http.StatusOK, "api") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/sign-up", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","code":"unauthenticated"}`, w.Body.String())
}
