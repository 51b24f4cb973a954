// Package http exposes the gateway's HTTP surface: the session endpoints the
// dashboards call directly, and the authenticated reverse proxy to the
// booking API.
package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/session"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/httpx"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	session  *session.Manager
	upstream *url.URL

	// Transport is the authenticated round tripper used by the proxy,
	// normally session.Manager.Transport.
	Transport http.RoundTripper
}

func NewRouter(
	sess *session.Manager,
	upstream *url.URL,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		session:      sess,
		upstream:     upstream,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProxy()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Session: r.session, Logger: r.logger}

	// POST /login - strict rate limit (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout", http.HandlerFunc(h.HandleLogout))
	r.Mux.Handle("GET /v1/auth/session", http.HandlerFunc(h.HandleSession))
}

func (r *Router) registerProxy() {
	r.Mux.Handle("/api/", NewProxy(r.upstream, r.Transport, r.logger))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
}
