package routerhelper

import (
	"context"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
)

// RouteGroup registers handlers on an httprouter under a common path prefix.
type RouteGroup struct {
	router *httprouter.Router
	prefix string
}

func NewRouteGroup(router *httprouter.Router, prefix string) *RouteGroup {
	return &RouteGroup{router: router, prefix: prefix}
}

func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{router: g.router, prefix: g.path(prefix)}
}

func (g *RouteGroup) path(p string) string {
	joined := path.Join(g.prefix, p)
	if len(p) > 0 && p[len(p)-1] == '/' && joined[len(joined)-1] != '/' {
		joined += "/"
	}
	return joined
}

// UNMATCHED_ROUTE labels requests that no registered route served.
const UNMATCHED_ROUTE = "other"

type routeKey struct{}

// TrackRoute returns r with an empty route slot and a func reading it after the
// request was served. Routes registered through a RouteGroup fill the slot with
// their pattern.
func TrackRoute(r *http.Request) (*http.Request, func() string) {
	slot := new(string)
	r = r.WithContext(context.WithValue(r.Context(), routeKey{}, slot))
	return r, func() string {
		if *slot == "" {
			return UNMATCHED_ROUTE
		}
		return *slot
	}
}

func setRoute(r *http.Request, pattern string) {
	if slot, ok := r.Context().Value(routeKey{}).(*string); ok {
		*slot = pattern
	}
}

func (g *RouteGroup) Handle(method, p string, handle httprouter.Handle) {
	pattern := g.path(p)
	g.router.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		setRoute(r, pattern)
		handle(w, r, ps)
	})
}

func (g *RouteGroup) Handler(method, p string, handler http.Handler) {
	pattern := g.path(p)
	g.router.Handler(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setRoute(r, pattern)
		handler.ServeHTTP(w, r)
	}))
}

func (g *RouteGroup) GET(p string, handle httprouter.Handle) {
	g.Handle(http.MethodGet, p, handle)
}

func (g *RouteGroup) POST(p string, handle httprouter.Handle) {
	g.Handle(http.MethodPost, p, handle)
}
