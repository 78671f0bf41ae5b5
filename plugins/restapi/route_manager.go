package restapi

import (
	"sort"
	"sync"

	"github.com/labstack/echo/v4"
)

// RestRouteManager keeps track of the route groups the plugins registered.
type RestRouteManager struct {
	sync.RWMutex
	echo   *echo.Echo
	routes []string
}

func newRestRouteManager(e *echo.Echo) *RestRouteManager {
	return &RestRouteManager{
		echo:   e,
		routes: []string{},
	}
}

// Routes returns the registered route groups.
func (p *RestRouteManager) Routes() []string {
	p.RLock()
	defer p.RUnlock()

	routes := make([]string, len(p.routes))
	copy(routes, p.routes)
	return routes
}

// AddRoute adds a route to the routes endpoint and returns the group for this route.
func (p *RestRouteManager) AddRoute(route string) *echo.Group {
	p.Lock()
	defer p.Unlock()

	found := false
	for _, r := range p.routes {
		if r == route {
			found = true
			break
		}
	}
	if !found {
		p.routes = append(p.routes, route)
		sort.Strings(p.routes)
	}
	return p.echo.Group(route)
}
