package restapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/gohornet/votereward/pkg/app"
	"github.com/gohornet/votereward/pkg/jwt"
	"github.com/gohornet/votereward/pkg/metrics"
	"github.com/gohornet/votereward/pkg/model/vote"
	"github.com/gohornet/votereward/pkg/node"
	"github.com/gohornet/votereward/pkg/restapi"
	"github.com/gohornet/votereward/pkg/shutdown"
	"github.com/iotaledger/hive.go/configuration"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.StatusEnabled,
		Pluggable: node.Pluggable{
			Name:      "RestAPI",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies
)

type dependencies struct {
	dig.In
	NodeConfig         *configuration.Configuration `name:"nodeConfig"`
	AppInfo            *app.AppInfo
	Registry           *vote.Registry
	Echo               *echo.Echo
	JWTAuth            *jwt.Auth
	RestAPIMetrics     *metrics.RestAPIMetrics
	RestRouteManager   *RestRouteManager
	RestAPIBindAddress string `name:"restAPIBindAddress"`
}

func provide(c *dig.Container) {

	type cfgDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
	}

	type cfgResult struct {
		dig.Out
		RestAPIBindAddress      string `name:"restAPIBindAddress"`
		RestAPILimitsMaxResults int    `name:"restAPILimitsMaxResults"`
	}

	if err := c.Provide(func(deps cfgDeps) cfgResult {
		return cfgResult{
			RestAPIBindAddress:      deps.NodeConfig.String(CfgRestAPIBindAddress),
			RestAPILimitsMaxResults: deps.NodeConfig.Int(CfgRestAPILimitsMaxResults),
		}
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func() *metrics.RestAPIMetrics {
		return &metrics.RestAPIMetrics{}
	}); err != nil {
		Plugin.LogPanic(err)
	}

	if err := c.Provide(func(deps cfgDeps) *jwt.Auth {
		// API tokens do not expire.
		jwtAuth, err := jwt.NewAuth(JWTAudience, 0, deps.NodeConfig.String(CfgRestAPIJWTAuthSalt))
		if err != nil {
			Plugin.LogPanicf("JWT auth initialization failed: %s", err)
		}
		return jwtAuth
	}); err != nil {
		Plugin.LogPanic(err)
	}

	type echoDeps struct {
		dig.In
		NodeConfig     *configuration.Configuration `name:"nodeConfig"`
		RestAPIMetrics *metrics.RestAPIMetrics
	}

	if err := c.Provide(func(deps echoDeps) *echo.Echo {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.HTTPErrorHandler = errorHandler(deps.RestAPIMetrics)
		e.Use(middleware.Recover())
		e.Use(middleware.CORS())
		e.Use(middleware.Gzip())
		e.Use(middleware.BodyLimit(deps.NodeConfig.String(CfgRestAPILimitsMaxBodyLength)))

		if deps.NodeConfig.Bool(CfgRestAPIDebugRequestLoggerEnabled) {
			e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
				LogMethod:  true,
				LogURI:     true,
				LogStatus:  true,
				LogLatency: true,
				LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
					Plugin.LogDebugf("%d %s %s (%s)", v.Status, v.Method, v.URI, v.Latency)
					return nil
				},
			}))
		}

		return e
	}); err != nil {
		Plugin.LogPanic(err)
	}

	type routeManagerDeps struct {
		dig.In
		Echo *echo.Echo
	}

	if err := c.Provide(func(deps routeManagerDeps) *RestRouteManager {
		return newRestRouteManager(deps.Echo)
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

// errorHandler renders the error envelope and counts the failed requests.
func errorHandler(restAPIMetrics *metrics.RestAPIMetrics) func(error, echo.Context) {
	render := restapi.ErrorHandler()

	return func(err error, c echo.Context) {
		Plugin.LogDebugf("HTTP request failed: %s", err)
		restAPIMetrics.HTTPRequestErrorCounter.Inc()

		var e *echo.HTTPError
		if errors.As(err, &e) && e.Code >= http.StatusBadRequest && e.Code < http.StatusInternalServerError {
			restAPIMetrics.HTTPRequestRejectedCounter.Inc()
		}

		render(err, c)
	}
}

func configure() {
	deps.Echo.Use(metricsMiddleware())
	deps.Echo.Use(apiMiddleware())
	setupRoutes()
}

func run() {

	Plugin.LogInfo("Starting REST-API server ...")

	if err := Plugin.Daemon().BackgroundWorker("REST-API server", func(ctx context.Context) {
		Plugin.LogInfo("Starting REST-API server ... done")

		bindAddr := deps.RestAPIBindAddress

		go func() {
			Plugin.LogInfof("You can now access the API using: http://%s", bindAddr)
			if err := deps.Echo.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Plugin.LogWarnf("Stopped REST-API server due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Plugin.LogInfo("Stopping REST-API server ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		if err := deps.Echo.Shutdown(shutdownCtx); err != nil {
			Plugin.LogWarn(err)
		}
		Plugin.LogInfo("Stopping REST-API server ... done")
	}, shutdown.PriorityRestAPI); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}
