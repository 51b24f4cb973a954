package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/claimsx"
)

// testCredential builds a three-segment credential whose payload carries the
// given claims. The signature segment is junk; nothing here verifies it.
func testCredential(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + ".c2ln"
}

func claimsOf(userID int64, userName string) claimsx.Claims {
	return claimsx.Claims{UserID: userID, UserName: userName}
}

// recordingStore wraps a store and counts mutations, so tests can assert that
// an operation left the store untouched.
type recordingStore struct {
	credstore.Store

	sets   atomic.Int64
	clears atomic.Int64
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: credstore.NewMemory()}
}

func (r *recordingStore) Set(ctx context.Context, pair credstore.Pair) error {
	r.sets.Add(1)
	return r.Store.Set(ctx, pair)
}

func (r *recordingStore) Clear(ctx context.Context) error {
	r.clears.Add(1)
	return r.Store.Clear(ctx)
}

// fakeAPI is a scriptable TokenAPI.
type fakeAPI struct {
	mu sync.Mutex

	loginFn   func(username, password string) (*bookingapi.LoginResponse, error)
	refreshFn func(refreshCredential string) (*bookingapi.RefreshResponse, error)

	loginCalls   atomic.Int64
	refreshCalls atomic.Int64

	// gate, when set, is closed by the test to release in-flight refreshes.
	gate chan struct{}
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (*bookingapi.LoginResponse, error) {
	f.loginCalls.Add(1)
	f.mu.Lock()
	fn := f.loginFn
	f.mu.Unlock()
	return fn(username, password)
}

func (f *fakeAPI) Refresh(_ context.Context, refreshCredential string) (*bookingapi.RefreshResponse, error) {
	f.refreshCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	fn := f.refreshFn
	f.mu.Unlock()
	return fn(refreshCredential)
}
