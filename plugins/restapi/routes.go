package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gohornet/votereward/pkg/app"
	"github.com/gohornet/votereward/pkg/restapi"
)

const (
	nodeAPIHealthRoute = "/health"

	nodeAPIRoutesRoute = "/api/routes"

	nodeAPIInfoRoute = "/api/info"
)

type RoutesResponse struct {
	Routes []string `json:"routes"`
}

type InfoResponse struct {
	*app.AppInfo
	Initialized bool   `json:"initialized"`
	Admin       string `json:"admin,omitempty"`
	NextVoteID  uint64 `json:"nextVoteId"`
	Votes       int    `json:"votes"`
}

func setupRoutes() {

	deps.Echo.GET(nodeAPIHealthRoute, func(c echo.Context) error {
		// the registry refuses every vote operation until it is initialized
		if !deps.Registry.IsInitialized() {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	})

	deps.Echo.GET(nodeAPIRoutesRoute, func(c echo.Context) error {
		resp := &RoutesResponse{
			Routes: deps.RestRouteManager.Routes(),
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})

	deps.Echo.GET(nodeAPIInfoRoute, func(c echo.Context) error {
		resp := &InfoResponse{
			AppInfo:     deps.AppInfo,
			Initialized: deps.Registry.IsInitialized(),
			NextVoteID:  deps.Registry.NextID(),
			Votes:       len(deps.Registry.VoteIDs()),
		}

		if admin, err := deps.Registry.Admin(); err == nil {
			resp.Admin = admin.String()
		}

		return restapi.JSONResponse(c, http.StatusOK, resp)
	})
}
