package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"video-gallery/config"
	"video-gallery/constant"
	"video-gallery/dto"
)

var (
	ErrNoVerificationKey = errors.New("clerk jwt key is not configured")
	ErrUnauthorizedParty = errors.New("token issued for an unauthorized party")
	ErrMissingSubject    = errors.New("token has no subject")
)

const clockSkew = 5 * time.Second

// SessionClaims are the parts of a Clerk session token this service reads.
type SessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	SessionID       string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks Clerk session tokens offline against the instance's PEM
// public key.
type Verifier struct {
	parser            *jwt.Parser
	keyFunc           jwt.Keyfunc
	authorizedParties []string
}

func NewVerifier(cfg config.Clerk) (*Verifier, error) {
	v := &Verifier{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithLeeway(clockSkew),
			jwt.WithExpirationRequired(),
		),
		authorizedParties: cfg.AuthorizedParties,
	}

	if strings.TrimSpace(cfg.JWTKey) == "" {
		v.keyFunc = func(*jwt.Token) (interface{}, error) {
			return nil, ErrNoVerificationKey
		}
		return v, nil
	}

	// env files often carry the PEM with escaped newlines
	pem := strings.ReplaceAll(cfg.JWTKey, `\n`, "\n")
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, err
	}
	v.keyFunc = func(*jwt.Token) (interface{}, error) {
		return key, nil
	}
	return v, nil
}

// Verify returns the user id carried by a valid session token.
func (v *Verifier) Verify(token string) (string, error) {
	claims := &SessionClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, v.keyFunc); err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		return "", ErrUnauthorizedParty
	}
	return claims.Subject, nil
}

// Authenticate resolves the caller from a bearer token or the session cookie.
// It never rejects; an unverified caller simply has no user id.
func Authenticate(verifier *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("session token rejected")
			c.Next()
			return
		}

		c.Set(constant.ContextUserIDKey, userID)
		logger := zerolog.Ctx(c.Request.Context()).With().Str("user_id", userID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(constant.SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func UserID(c *gin.Context) string {
	return c.GetString(constant.ContextUserIDKey)
}

// RequireUser sends anonymous page visitors to the sign-up page.
func RequireUser(signUpPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.Redirect(http.StatusFound, signUpPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPIUser answers 401 JSON to anonymous API callers.
func RequireAPIUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "Unauthorized",
				Code:  "unauthenticated",
			})
			return
		}
		c.Next()
	}
}
