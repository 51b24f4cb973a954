// Package sqlite provides a SQLite-backed credential store. It keeps the
// credential pair in a single-row table so restarts of a single-node gateway
// pick up the prior session.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
)

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Get(ctx context.Context) (credstore.Pair, error) {
	var pair credstore.Pair
	err := s.db.QueryRowContext(ctx,
		`SELECT access_credential, refresh_credential FROM credentials WHERE id = 1`,
	).Scan(&pair.Access, &pair.Refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return credstore.Pair{}, credstore.ErrNotFound
	}
	if err != nil {
		return credstore.Pair{}, fmt.Errorf("select credentials: %w", err)
	}
	return pair, nil
}

func (s *Store) Set(ctx context.Context, pair credstore.Pair) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, access_credential, refresh_credential, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			access_credential = excluded.access_credential,
			refresh_credential = excluded.refresh_credential,
			updated_at = CURRENT_TIMESTAMP`,
		pair.Access, pair.Refresh,
	)
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}
