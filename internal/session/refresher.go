package session

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
)

const refreshKey = "refresh"

// refresher serializes credential refreshes: under concurrent demand exactly
// one network call is made, and every caller shares its outcome.
type refresher struct {
	store  credstore.Store
	api    TokenAPI
	logger *slog.Logger

	// onFailure is invoked once per failed flight, after the store has been
	// cleared.
	onFailure func()

	group singleflight.Group
}

// Refresh exchanges the stored refresh credential for a new pair. The pair is
// committed to the store before any caller resumes, so a subsequent store
// read always sees the refreshed credentials. On failure the store is cleared
// and every waiter receives ErrRefreshFailed; the group forgets the key at
// settlement, so a later caller starts a fresh flight rather than reusing a
// dead result.
func (r *refresher) Refresh(ctx context.Context) (credstore.Pair, error) {
	v, err, shared := r.group.Do(refreshKey, func() (any, error) {
		// Detach from the triggering request: cancelling one caller must not
		// fail the flight for everyone awaiting it.
		return r.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		return credstore.Pair{}, err
	}

	pair := v.(credstore.Pair)
	if shared {
		r.logger.DebugContext(ctx, "joined in-flight credential refresh")
	}
	return pair, nil
}

func (r *refresher) refresh(ctx context.Context) (any, error) {
	pair, err := r.store.Get(ctx)
	if err != nil {
		return r.fail(ctx, fmt.Errorf("no refresh credential available: %w", err))
	}

	resp, err := r.api.Refresh(ctx, pair.Refresh)
	if err != nil {
		return r.fail(ctx, err)
	}
	if resp.AccessCredential == "" || resp.RefreshCredential == "" {
		return r.fail(ctx, fmt.Errorf("refresh response missing credential pair"))
	}

	next := credstore.Pair{Access: resp.AccessCredential, Refresh: resp.RefreshCredential}
	if err := r.store.Set(ctx, next); err != nil {
		return r.fail(ctx, fmt.Errorf("persist refreshed pair: %w", err))
	}

	r.logger.InfoContext(ctx, "credential pair refreshed")
	return next, nil
}

// fail clears the store so no caller retries with a refresh credential the
// server already rejected, then reports the terminal failure.
func (r *refresher) fail(ctx context.Context, cause error) (any, error) {
	if err := r.store.Clear(ctx); err != nil {
		r.logger.WarnContext(ctx, "failed to clear credential store", "error", err)
	}
	if r.onFailure != nil {
		r.onFailure()
	}

	r.logger.WarnContext(ctx, "credential refresh failed", "error", cause)
	return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, cause)
}
