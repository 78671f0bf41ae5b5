package restapi

import (
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gohornet/votereward/pkg/jwt"
	"github.com/gohornet/votereward/pkg/model/account"
	"github.com/gohornet/votereward/pkg/restapi"
)

// compiles a route with * wildcards into an anchored regular expression.
func compileRouteAsRegex(route string) *regexp.Regexp {

	r := regexp.QuoteMeta(route)
	r = strings.ReplaceAll(r, `\*`, "(.*?)")
	r = "^" + r + "$"

	reg, err := regexp.Compile(r)
	if err != nil {
		return nil
	}
	return reg
}

func compileRoutesAsRegexes(routes []string) []*regexp.Regexp {
	var regexes []*regexp.Regexp
	for _, route := range routes {
		reg := compileRouteAsRegex(route)
		if reg == nil {
			Plugin.LogFatalf("Invalid route in config: %s", route)
		}
		regexes = append(regexes, reg)
	}
	return regexes
}

// publicRouteSkipper allows reading the public routes without authorization.
// Every state changing request needs a caller.
func publicRouteSkipper(publicRoutes []*regexp.Regexp) middleware.Skipper {
	return func(c echo.Context) bool {
		if c.Request().Method != echo.GET {
			return false
		}

		path := strings.ToLower(c.Request().URL.EscapedPath())
		for _, reg := range publicRoutes {
			if reg.MatchString(path) {
				return true
			}
		}
		return false
	}
}

// allowPrincipalSubject only accepts tokens issued for a principal.
func allowPrincipalSubject(_ echo.Context, subject string) bool {
	_, err := account.ParsePrincipal(subject)
	return err == nil
}

// principalHeaderMiddleware takes the caller from a request header.
// It is only used if JWT authentication is disabled.
func principalHeaderMiddleware(header string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if principal := c.Request().Header.Get(header); principal != "" {
				if !allowPrincipalSubject(c, principal) {
					return restapi.ErrUnauthorized
				}
				c.Set(jwt.ContextKeySubject, principal)
			}
			return next(c)
		}
	}
}

func apiMiddleware() echo.MiddlewareFunc {

	if !deps.NodeConfig.Bool(CfgRestAPIJWTAuthEnabled) {
		Plugin.LogWarnf("JWT authentication is disabled, callers are identified by the %s header", deps.NodeConfig.String(CfgRestAPIPrincipalHeader))
		return principalHeaderMiddleware(deps.NodeConfig.String(CfgRestAPIPrincipalHeader))
	}

	publicRoutes := compileRoutesAsRegexes(deps.NodeConfig.Strings(CfgRestAPIPublicRoutes))

	return deps.JWTAuth.Middleware(publicRouteSkipper(publicRoutes), allowPrincipalSubject)
}

// metricsMiddleware counts the handled requests.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deps.RestAPIMetrics.HTTPRequestCounter.Inc()
			return next(c)
		}
	}
}
