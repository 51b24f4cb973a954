package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/session"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
)

func TestProxyForwardsAuthenticatedRequests(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"bookings":[]}`))
	}))
	defer srv.Close()

	upstream, err := url.Parse(srv.URL)
	require.NoError(t, err)

	store := credstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), credstore.Pair{Access: "A1", Refresh: "R1"}))
	sess := session.NewManager(store, &stubAPI{}, slog.New(slog.DiscardHandler))

	router := NewRouter(sess, upstream, "test", slog.New(slog.DiscardHandler))
	router.Transport = sess.Transport(nil)
	router.ApplyRoutes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "/v1/bookings", gotPath, "the /api prefix is stripped before forwarding")
	require.Equal(t, "Bearer A1", gotAuth, "the proxy call carries the stored access credential")
	require.JSONEq(t, `{"bookings":[]}`, rec.Body.String())
}

func TestProxyReplaysPostAfterRefresh(t *testing.T) {
	var (
		hits   atomic.Int64
		auths  []string
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		auths = append(auths, r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))

		if r.Header.Get("Authorization") != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	upstream, err := url.Parse(srv.URL)
	require.NoError(t, err)

	store := credstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), credstore.Pair{Access: "A1", Refresh: "R1"}))

	var refreshCalls atomic.Int64
	api := &stubAPI{refreshFn: func(refreshCredential string) (*bookingapi.RefreshResponse, error) {
		refreshCalls.Add(1)
		require.Equal(t, "R1", refreshCredential)
		return &bookingapi.RefreshResponse{AccessCredential: "A2", RefreshCredential: "R2"}, nil
	}}
	sess := session.NewManager(store, api, slog.New(slog.DiscardHandler))

	router := NewRouter(sess, upstream, "test", slog.New(slog.DiscardHandler))
	router.Transport = sess.Transport(nil)
	router.ApplyRoutes()

	// A proxied POST carries a one-shot body: the proxy never sets GetBody on
	// its outbound request.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/homestays",
		strings.NewReader(`{"name":"Seaside Cottage"}`)))

	require.Equal(t, http.StatusCreated, rec.Code, "the caller sees the replayed response, not the 401")
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 2, hits.Load(), "original send plus one replay")
	require.Equal(t, []string{"Bearer A1", "Bearer A2"}, auths)
	require.Equal(t, []string{`{"name":"Seaside Cottage"}`, `{"name":"Seaside Cottage"}`}, bodies)

	pair, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, credstore.Pair{Access: "A2", Refresh: "R2"}, pair)
}

func TestProxyReportsUpstreamFailure(t *testing.T) {
	upstream, err := url.Parse("http://127.0.0.1:1") // nothing listens here
	require.NoError(t, err)

	sess := session.NewManager(credstore.NewMemory(), &stubAPI{}, slog.New(slog.DiscardHandler))
	router := NewRouter(sess, upstream, "test", slog.New(slog.DiscardHandler))
	router.Transport = sess.Transport(nil)
	router.ApplyRoutes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
}
