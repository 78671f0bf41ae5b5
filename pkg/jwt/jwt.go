package jwt

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	// ContextKeySubject is the echo context key the verified subject is stored under.
	ContextKeySubject = "jwtSubject"

	contextKeyToken = "jwt"
)

var (
	ErrJWTInvalidClaims = echo.NewHTTPError(http.StatusUnauthorized, "invalid jwt claims")
)

// Auth issues and verifies the API tokens. The subject of a token is the caller identity.
type Auth struct {
	audience       string
	sessionTimeout time.Duration
	secret         []byte
}

// NewAuth creates a new Auth. The signing secret is derived from the salt.
func NewAuth(audience string, sessionTimeout time.Duration, salt string) (*Auth, error) {

	if len(audience) == 0 {
		return nil, errors.New("audience must not be empty")
	}
	if len(salt) == 0 {
		return nil, errors.New("salt must not be empty")
	}

	secret := blake2b.Sum256([]byte(salt))

	return &Auth{
		audience:       audience,
		sessionTimeout: sessionTimeout,
		secret:         secret[:],
	}, nil
}

type AuthClaims struct {
	jwt.StandardClaims
}

func (c *AuthClaims) compare(field string, expected string) bool {
	if field == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(field), []byte(expected)) != 0 {
		return true
	}

	return false
}

func (c *AuthClaims) VerifySubject(expected string) bool {
	return c.compare(c.Subject, expected)
}

// Middleware verifies the bearer token of every request not skipped and stores its subject
// in the context. allow may reject a subject, e.g. one that is not a valid principal.
func (j *Auth) Middleware(skipper middleware.Skipper, allow func(c echo.Context, subject string) bool) echo.MiddlewareFunc {

	config := middleware.JWTConfig{
		ContextKey: contextKeyToken,
		Claims:     &AuthClaims{},
		SigningKey: j.secret,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {

		return func(c echo.Context) error {

			// skip unprotected endpoints
			if skipper(c) {
				return next(c)
			}

			// use the default JWT middleware to verify and extract the JWT
			handler := middleware.JWTWithConfig(config)(func(c echo.Context) error {
				return nil
			})

			// run the JWT middleware
			if err := handler(c); err != nil {
				return err
			}

			token, ok := c.Get(contextKeyToken).(*jwt.Token)
			if !ok {
				return fmt.Errorf("expected *jwt.Token, got %T", c.Get(contextKeyToken))
			}

			// validate the signing method we expect
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			// read the claims set by the JWT middleware on the context
			claims, ok := token.Claims.(*AuthClaims)

			// do extended claims validation
			if !ok || !claims.VerifyAudience(j.audience, true) || claims.Subject == "" {
				return ErrJWTInvalidClaims
			}

			if !allow(c, claims.Subject) {
				return ErrJWTInvalidClaims
			}

			c.Set(ContextKeySubject, claims.Subject)

			// go to the next handler
			return next(c)
		}
	}
}

// IssueJWT issues a token for the given subject.
func (j *Auth) IssueJWT(subject string) (string, error) {

	if len(subject) == 0 {
		return "", errors.New("subject must not be empty")
	}

	now := time.Now()

	// Set claims
	stdClaims := jwt.StandardClaims{
		Subject:   subject,
		Issuer:    j.audience,
		Audience:  j.audience,
		Id:        fmt.Sprintf("%d", now.UnixNano()),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
	}

	if j.sessionTimeout > 0 {
		stdClaims.ExpiresAt = now.Add(j.sessionTimeout).Unix()
	}

	claims := &AuthClaims{
		StandardClaims: stdClaims,
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Generate encoded token and send it as response.
	return token.SignedString(j.secret)
}

// VerifyJWT parses the token and returns its subject if the token is valid.
func (j *Auth) VerifyJWT(token string) (string, bool) {

	t, err := jwt.ParseWithClaims(token, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the signing method we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return j.secret, nil
	})
	if err != nil || !t.Valid {
		return "", false
	}

	claims, ok := t.Claims.(*AuthClaims)
	if !ok || !claims.VerifyAudience(j.audience, true) || claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}

// SubjectFromContext returns the subject stored by the middleware.
func SubjectFromContext(c echo.Context) (string, bool) {
	subject, ok := c.Get(ContextKeySubject).(string)
	return subject, ok && subject != ""
}
