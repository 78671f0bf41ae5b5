package basicauth

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// SaltLength is the length of a generated salt in bytes.
	SaltLength = 32
	keyLength  = 32
)

var (
	// ErrInvalidCredentials is returned if the configured credentials can not be used.
	ErrInvalidCredentials = errors.New("invalid basic auth credentials")
)

// GenerateSalt returns a crypto-secure random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DerivePasswordKey derives the scrypt key of a password.
func DerivePasswordKey(password []byte, salt []byte) ([]byte, error) {
	return scrypt.Key(password, salt, 1<<15, 8, 1, keyLength)
}

// Credentials are a username and the scrypt key of its password.
type Credentials struct {
	username     string
	passwordKey  []byte
	passwordSalt []byte
}

// NewCredentials parses the hex encoded password key and salt.
func NewCredentials(username string, passwordKeyHex string, passwordSaltHex string) (*Credentials, error) {
	if username == "" {
		return nil, errors.WithMessage(ErrInvalidCredentials, "username must not be empty")
	}

	passwordKey, err := hex.DecodeString(passwordKeyHex)
	if err != nil || len(passwordKey) != keyLength {
		return nil, errors.WithMessagef(ErrInvalidCredentials, "password hash must be %d hex encoded bytes", keyLength)
	}

	passwordSalt, err := hex.DecodeString(passwordSaltHex)
	if err != nil || len(passwordSalt) != SaltLength {
		return nil, errors.WithMessagef(ErrInvalidCredentials, "password salt must be %d hex encoded bytes", SaltLength)
	}

	return &Credentials{
		username:     username,
		passwordKey:  passwordKey,
		passwordSalt: passwordSalt,
	}, nil
}

// Verify checks the username and derives the key of the password.
func (c *Credentials) Verify(username string, password string) bool {
	if username != c.username {
		return false
	}

	key, err := DerivePasswordKey([]byte(password), c.passwordSalt)
	if err != nil {
		return false
	}
	return bytes.Equal(key, c.passwordKey)
}

// Middleware rejects requests without matching basic auth credentials.
func (c *Credentials) Middleware(realm string) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: realm,
		Validator: func(username string, password string, _ echo.Context) (bool, error) {
			return c.Verify(username, password), nil
		},
	})
}
