package jwt_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/jwt"
)

func TestIssueAndVerify(t *testing.T) {
	auth, err := jwt.NewAuth("votereward", time.Hour, "salt")
	require.NoError(t, err)

	token, err := auth.IssueJWT("0x1001")
	require.NoError(t, err)

	subject, ok := auth.VerifyJWT(token)
	require.True(t, ok)
	require.Equal(t, "0x1001", subject)

	// a different salt signs with a different secret
	other, err := jwt.NewAuth("votereward", time.Hour, "pepper")
	require.NoError(t, err)
	_, ok = other.VerifyJWT(token)
	require.False(t, ok)

	// a different audience
	other, err = jwt.NewAuth("somebody-else", time.Hour, "salt")
	require.NoError(t, err)
	_, ok = other.VerifyJWT(token)
	require.False(t, ok)

	_, ok = auth.VerifyJWT("not-a-token")
	require.False(t, ok)

	_, err = auth.IssueJWT("")
	require.Error(t, err)
}

func TestNewAuthValidation(t *testing.T) {
	_, err := jwt.NewAuth("", time.Hour, "salt")
	require.Error(t, err)

	_, err = jwt.NewAuth("votereward", time.Hour, "")
	require.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	auth, err := jwt.NewAuth("votereward", 0, "salt")
	require.NoError(t, err)

	e := echo.New()
	e.Use(auth.Middleware(
		func(c echo.Context) bool { return c.Path() == "/public" },
		func(c echo.Context, subject string) bool { return subject != "0xbad" },
	))

	e.GET("/public", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/private", func(c echo.Context) error {
		subject, ok := jwt.SubjectFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, subject)
	})

	request := func(path string, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, request("/public", "").Code)
	require.NotEqual(t, http.StatusOK, request("/private", "").Code)

	token, err := auth.IssueJWT("0x1001")
	require.NoError(t, err)
	rec := request("/private", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0x1001", rec.Body.String())

	rejected, err := auth.IssueJWT("0xbad")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, request("/private", rejected).Code)
}
