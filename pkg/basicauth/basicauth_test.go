package basicauth_test

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/basicauth"
)

func newCredentials(t *testing.T, username string, password string) *basicauth.Credentials {
	salt, err := basicauth.GenerateSalt()
	require.NoError(t, err)

	key, err := basicauth.DerivePasswordKey([]byte(password), salt)
	require.NoError(t, err)

	credentials, err := basicauth.NewCredentials(username, hex.EncodeToString(key), hex.EncodeToString(salt))
	require.NoError(t, err)
	return credentials
}

func TestCredentials(t *testing.T) {
	credentials := newCredentials(t, "admin", "secret")

	require.True(t, credentials.Verify("admin", "secret"))
	require.False(t, credentials.Verify("admin", "Secret"))
	require.False(t, credentials.Verify("root", "secret"))

	_, err := basicauth.NewCredentials("", "00", "00")
	require.ErrorIs(t, err, basicauth.ErrInvalidCredentials)

	_, err = basicauth.NewCredentials("admin", "zz", "00")
	require.ErrorIs(t, err, basicauth.ErrInvalidCredentials)
}

func TestMiddleware(t *testing.T) {
	credentials := newCredentials(t, "admin", "secret")

	e := echo.New()
	e.Use(credentials.Middleware("metrics"))
	e.GET("/metrics", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	request := func(username string, password string) int {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if username != "" {
			req.SetBasicAuth(username, password)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, request("admin", "secret"))
	require.Equal(t, http.StatusUnauthorized, request("admin", "wrong"))
	require.Equal(t, http.StatusUnauthorized, request("", ""))
}
