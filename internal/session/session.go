// Package session owns the authenticated HTTP session for the gateway:
// bootstrapping from stored credentials, login/logout, single-flight refresh
// of an expired access credential, and an http.RoundTripper that attaches the
// right bearer to every outbound call.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/bookingapi"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/claimsx"
)

// TokenAPI is the slice of the booking API the session layer depends on.
// *bookingapi.Client satisfies it; tests inject fakes.
type TokenAPI interface {
	Login(ctx context.Context, username, password string) (*bookingapi.LoginResponse, error)
	Refresh(ctx context.Context, refreshCredential string) (*bookingapi.RefreshResponse, error)
}

// Manager coordinates the credential store, the session state and the refresh
// flow. It is safe for concurrent use.
type Manager struct {
	store  credstore.Store
	api    TokenAPI
	logger *slog.Logger

	// now is swappable for expiry boundary tests.
	now func() time.Time

	refresher *refresher

	mu    sync.RWMutex
	state State
}

// NewManager wires a session manager over the given store and token API.
func NewManager(store credstore.Store, api TokenAPI, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		store:  store,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
	m.refresher = &refresher{
		store:     store,
		api:       api,
		logger:    logger,
		onFailure: m.invalidate,
	}
	return m
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Login authenticates against the booking API, persists the returned
// credential pair and applies the pending/fulfilled/rejected transitions.
// The returned State is the post-login snapshot.
func (m *Manager) Login(ctx context.Context, username, password string) (State, error) {
	m.setState(loginPending)

	resp, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.setState(func(s State) State { return loginRejected(s, loginErrMessage(err)) })
		return m.Snapshot(), err
	}

	claims, err := claimsx.Decode(resp.AccessCredential)
	if err != nil {
		m.setState(func(s State) State { return loginRejected(s, "invalid credential received") })
		return m.Snapshot(), err
	}

	pair := credstore.Pair{Access: resp.AccessCredential, Refresh: resp.RefreshCredential}
	if err := m.store.Set(ctx, pair); err != nil {
		m.setState(func(s State) State { return loginRejected(s, "could not persist session") })
		return m.Snapshot(), fmt.Errorf("persist credential pair: %w", err)
	}

	m.setState(func(s State) State { return loginFulfilled(s, claims, resp.Permissions) })
	m.logger.InfoContext(ctx, "login succeeded", "user_id", claims.UserID)
	return m.Snapshot(), nil
}

// Logout clears the stored credentials and resets the session state. It is
// purely local; no upstream call is made.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential pair: %w", err)
	}

	m.setState(loggedOut)
	m.logger.InfoContext(ctx, "logged out")
	return nil
}

// UpdateIdentity applies a server-pushed identity change (profile edits, role
// changes) to the session state without touching the credential pair.
// Permissions are replaced only when the update carries them.
func (m *Manager) UpdateIdentity(identity bookingapi.Identity, perms map[string]bookingapi.Permission) State {
	m.setState(func(s State) State { return identityUpdated(s, identity, perms) })
	return m.Snapshot()
}

// Refresh forces a credential refresh through the single-flight coordinator.
// Mostly useful for diagnostics; the Transport triggers it automatically.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err := m.refresher.Refresh(ctx)
	return err
}

// Transport returns an authenticated RoundTripper over base for calls to the
// booking API. A nil base uses http.DefaultTransport.
func (m *Manager) Transport(base http.RoundTripper) *Transport {
	return &Transport{
		Base:        base,
		LoginPath:   bookingapi.LoginPath,
		RefreshPath: bookingapi.RefreshPath,
		store:       m.store,
		refresher:   m.refresher,
		logger:      m.logger,
	}
}

// Client returns an *http.Client wired with the authenticated Transport.
func (m *Manager) Client(base http.RoundTripper) *http.Client {
	return &http.Client{Transport: m.Transport(base)}
}

func (m *Manager) setState(transition func(State) State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = transition(m.state)
}

// invalidate flips the session to unauthenticated after a failed refresh. The
// store has already been cleared by the refresher.
func (m *Manager) invalidate() {
	m.setState(func(s State) State { return sessionInvalidated(s, "session expired") })
}

// loginErrMessage extracts the upstream message when the failure carries one.
func loginErrMessage(err error) string {
	var apiErr *bookingapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "login failed"
}
