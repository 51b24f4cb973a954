package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	newManager := func(store credstore.Store) *Manager {
		m := NewManager(store, &fakeAPI{}, nil)
		m.now = func() time.Time { return now }
		return m
	}

	validAccess := func(t *testing.T) string {
		return testCredential(t, map[string]any{
			"user_id":   int64(42),
			"user_name": "host",
			"role_id":   int64(2),
			"is_admin":  false,
			"is_active": true,
			"exp":       now.Add(15 * time.Minute).Unix(),
		})
	}
	validRefresh := func(t *testing.T) string {
		return testCredential(t, map[string]any{
			"user_id": int64(42),
			"exp":     now.Add(30 * 24 * time.Hour).Unix(),
		})
	}

	t.Run("empty store leaves session unauthenticated and store untouched", func(t *testing.T) {
		store := newRecordingStore()
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))

		snap := m.Snapshot()
		require.False(t, snap.Authenticated)
		require.Zero(t, store.sets.Load())
		require.Zero(t, store.clears.Load())
	})

	t.Run("valid pair restores the session with decoded claims", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access:  validAccess(t),
			Refresh: validRefresh(t),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))

		snap := m.Snapshot()
		require.True(t, snap.Authenticated)
		require.Equal(t, int64(42), snap.Claims.UserID)
		require.Equal(t, "host", snap.Claims.UserName)
		require.True(t, snap.Claims.IsActive)
	})

	t.Run("malformed access credential clears the store", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access:  "not-a-credential",
			Refresh: validRefresh(t),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))

		require.False(t, m.Snapshot().Authenticated)
		_, err := store.Get(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("access credential without user_id clears the store", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access:  testCredential(t, map[string]any{"user_name": "ghost"}),
			Refresh: validRefresh(t),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))

		require.False(t, m.Snapshot().Authenticated)
		_, err := store.Get(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("refresh credential expiring exactly now counts as expired", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access: validAccess(t),
			Refresh: testCredential(t, map[string]any{
				"user_id": int64(42),
				"exp":     now.Unix(),
			}),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))

		require.False(t, m.Snapshot().Authenticated)
		_, err := store.Get(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("refresh credential without exp never expires", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access:  validAccess(t),
			Refresh: testCredential(t, map[string]any{"user_id": int64(42)}),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))
		require.True(t, m.Snapshot().Authenticated)
	})

	t.Run("bootstrap is idempotent over an unchanged store", func(t *testing.T) {
		store := newRecordingStore()
		require.NoError(t, store.Set(ctx, credstore.Pair{
			Access:  validAccess(t),
			Refresh: validRefresh(t),
		}))
		m := newManager(store)

		require.NoError(t, m.Bootstrap(ctx))
		first := m.Snapshot()

		require.NoError(t, m.Bootstrap(ctx))
		require.Equal(t, first, m.Snapshot())
	})
}
