package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/pkg/claimsx"
)

// Bootstrap restores the session from the credential store, typically once at
// startup. No network I/O happens here.
//
// An absent pair leaves the store untouched and the session unauthenticated.
// A pair that fails to decode, or whose refresh credential has expired, is
// cleared from the store before the session settles unauthenticated. A valid
// pair authenticates the session with the claims decoded from the access
// credential. Calling Bootstrap again over an unchanged store is a no-op.
func (m *Manager) Bootstrap(ctx context.Context) error {
	pair, err := m.store.Get(ctx)
	if errors.Is(err, credstore.ErrNotFound) {
		m.setState(loggedOut)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credential pair: %w", err)
	}

	claims, err := claimsx.Decode(pair.Access)
	if err != nil {
		m.logger.WarnContext(ctx, "stored access credential is invalid", "error", err)
		return m.discard(ctx)
	}

	// The refresh credential decides whether the session is still viable:
	// an expired access credential alone can be refreshed on first use.
	refreshClaims, err := claimsx.Decode(pair.Refresh)
	if err != nil {
		m.logger.WarnContext(ctx, "stored refresh credential is invalid", "error", err)
		return m.discard(ctx)
	}
	if refreshClaims.Expired(m.now()) {
		m.logger.InfoContext(ctx, "stored refresh credential has expired")
		return m.discard(ctx)
	}

	m.setState(func(s State) State { return loginFulfilled(s, claims, nil) })
	m.logger.InfoContext(ctx, "session restored", "user_id", claims.UserID)
	return nil
}

// discard drops an unusable pair and settles the session unauthenticated.
func (m *Manager) discard(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential pair: %w", err)
	}
	m.setState(loggedOut)
	return nil
}
