package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore/drivers/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "credentials.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("empty store reports not found", func(t *testing.T) {
		_, err := s.Get(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)
	})

	t.Run("set then get returns the committed pair", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, credstore.Pair{Access: "A1", Refresh: "R1"}))

		pair, err := s.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, credstore.Pair{Access: "A1", Refresh: "R1"}, pair)
	})

	t.Run("set overwrites the whole pair", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, credstore.Pair{Access: "A2", Refresh: "R2"}))

		pair, err := s.Get(ctx)
		require.NoError(t, err)
		require.Equal(t, credstore.Pair{Access: "A2", Refresh: "R2"}, pair)
	})

	t.Run("clear removes the pair", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx))
		_, err := s.Get(ctx)
		require.ErrorIs(t, err, credstore.ErrNotFound)

		require.NoError(t, s.Clear(ctx))
	})
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "credentials.db")

	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Set(ctx, credstore.Pair{Access: "A1", Refresh: "R1"}))
	require.NoError(t, s.Close())

	reopened, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.ApplyMigrations())

	pair, err := reopened.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, credstore.Pair{Access: "A1", Refresh: "R1"}, pair)
}
