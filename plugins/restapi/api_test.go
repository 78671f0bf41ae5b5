package restapi

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/gohornet/votereward/pkg/jwt"
)

func TestPublicRouteSkipper(t *testing.T) {
	skipper := publicRouteSkipper([]*regexp.Regexp{
		compileRouteAsRegex("/health"),
		compileRouteAsRegex("/api/votes/v1/*"),
	})

	e := echo.New()
	skips := func(method string, path string) bool {
		return skipper(e.NewContext(httptest.NewRequest(method, path, nil), httptest.NewRecorder()))
	}

	require.True(t, skips(http.MethodGet, "/health"))
	require.True(t, skips(http.MethodGet, "/api/votes/v1/votes/1"))
	require.False(t, skips(http.MethodPost, "/api/votes/v1/votes"))
	require.False(t, skips(http.MethodGet, "/healthz"))
	require.False(t, skips(http.MethodGet, "/x/api/votes/v1/votes"))
	require.False(t, skips(http.MethodGet, "/api/ledger/v1/faucet"))
}

func TestPrincipalHeaderMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(principalHeaderMiddleware("X-Principal"))
	e.GET("/whoami", func(c echo.Context) error {
		subject, ok := jwt.SubjectFromContext(c)
		if !ok {
			return c.NoContent(http.StatusNoContent)
		}
		return c.String(http.StatusOK, subject)
	})

	request := func(principal string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if principal != "" {
			req.Header.Set("X-Principal", principal)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := request("0x1001")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "0x1001", rec.Body.String())

	require.Equal(t, http.StatusNoContent, request("").Code)
	require.Equal(t, http.StatusUnauthorized, request("nobody").Code)
}

func TestRestRouteManager(t *testing.T) {
	manager := newRestRouteManager(echo.New())
	require.NotNil(t, manager.AddRoute("/api/votes/v1"))
	manager.AddRoute("/api/ledger/v1")
	manager.AddRoute("/api/votes/v1")

	require.Equal(t, []string{"/api/ledger/v1", "/api/votes/v1"}, manager.Routes())
}
