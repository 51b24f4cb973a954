package session

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/idx"
)

const requestIDHeader = "X-Request-ID"

// Transport is an http.RoundTripper that authenticates requests to the
// booking API and transparently recovers from an expired access credential.
//
// Attach rules: the refresh endpoint is sent the refresh credential, the
// login endpoint is sent nothing, and every other request carries the access
// credential read from the store at send time. When a non-auth request comes
// back 401 the transport awaits a single-flight refresh, rewrites the bearer
// and resends exactly once; a 401 on the resend is surfaced as-is, and a
// failed refresh surfaces the original 401 with the store already cleared.
type Transport struct {
	// Base is the underlying transport. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// LoginPath and RefreshPath identify the auth endpoints, which follow
	// different attach rules and are never retried.
	LoginPath   string
	RefreshPath string

	// Limiter optionally throttles outbound calls.
	Limiter *rate.Limiter

	store     credstore.Store
	refresher *refresher
	logger    *slog.Logger
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	out := req.Clone(req.Context())
	if out.Header.Get(requestIDHeader) == "" {
		out.Header.Set(requestIDHeader, idx.New().String())
	}
	t.attach(out)

	// Proxied requests arrive with a one-shot body and no GetBody. Buffer it
	// up front so the request stays replayable after a refresh.
	getBody := req.GetBody
	if req.Body != nil && getBody == nil {
		buf, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		getBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
		out.Body = io.NopCloser(bytes.NewReader(buf))
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || t.isAuthEndpoint(req.URL.Path) {
		return resp, nil
	}

	return t.recover(req, out, getBody, resp)
}

// recover runs the refresh-and-resend step for a 401 on a non-auth endpoint.
// orig is the caller's request (body already consumed), sent the request as
// it went out, getBody rebuilds the body for the replay, and resp is the 401
// response.
func (t *Transport) recover(orig, sent *http.Request, getBody func() (io.ReadCloser, error), resp *http.Response) (*http.Response, error) {
	pair, err := t.refresher.Refresh(orig.Context())
	if err != nil {
		if !errors.Is(err, ErrRefreshFailed) {
			drain(resp)
			return nil, err
		}
		// Terminal: hand the caller the original 401.
		return resp, nil
	}
	drain(resp)

	retry := orig.Clone(orig.Context())
	retry.Header.Set(requestIDHeader, sent.Header.Get(requestIDHeader))
	retry.Header.Set("Authorization", "Bearer "+pair.Access)
	retry.Body = nil
	if getBody != nil {
		body, err := getBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	t.logger.DebugContext(orig.Context(), "replaying request after credential refresh",
		"method", retry.Method, "path", retry.URL.Path)
	return t.base().RoundTrip(retry)
}

// attach sets the Authorization header per the endpoint's rule. A missing
// pair attaches nothing and lets the server answer 401.
func (t *Transport) attach(req *http.Request) {
	switch req.URL.Path {
	case t.LoginPath:
		return
	case t.RefreshPath:
		if pair, err := t.store.Get(req.Context()); err == nil {
			req.Header.Set("Authorization", "Bearer "+pair.Refresh)
		}
	default:
		if pair, err := t.store.Get(req.Context()); err == nil {
			req.Header.Set("Authorization", "Bearer "+pair.Access)
		}
	}
}

func (t *Transport) isAuthEndpoint(path string) bool {
	return path == t.LoginPath || path == t.RefreshPath
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// drain discards and closes a response body so the underlying connection can
// be reused.
func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
