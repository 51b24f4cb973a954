package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/httpx"
)

// NewProxy builds the authenticated reverse proxy that forwards dashboard
// calls under /api/ to the booking API. The transport attaches the bearer and
// handles the refresh-and-replay recovery, so the proxy itself stays dumb.
func NewProxy(upstream *url.URL, transport http.RoundTripper, logger *slog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			// /api/v1/bookings on the gateway is /v1/bookings upstream.
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, "/api")
			if pr.Out.URL.Path == "" {
				pr.Out.URL.Path = "/"
			}
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.ErrorContext(r.Context(), "proxy request failed",
				"path", r.URL.Path,
				"error", err,
			)
			httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "could not reach the booking API")
		},
	}
	return proxy
}
