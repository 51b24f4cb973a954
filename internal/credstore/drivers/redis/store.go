// Package redis provides a Redis-backed credential store for deployments
// where the gateway's session must survive restarts or move between nodes.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/homestay-booking-managementt/homestay-booking-frontend-sub000/internal/credstore"
)

// Store persists the credential pair as two keys under a shared prefix. The
// pair is written with a single MSET so readers never observe a half pair.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// NewStore creates a Redis credential store with the default prefix.
func NewStore(client redis.UniversalClient) *Store {
	return NewStoreWithPrefix(client, "session:")
}

// NewStoreWithPrefix creates a Redis credential store with a custom prefix.
func NewStoreWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) accessKey() string  { return s.prefix + credstore.KeyAccess }
func (s *Store) refreshKey() string { return s.prefix + credstore.KeyRefresh }

func (s *Store) Get(ctx context.Context) (credstore.Pair, error) {
	vals, err := s.client.MGet(ctx, s.accessKey(), s.refreshKey()).Result()
	if err != nil {
		return credstore.Pair{}, fmt.Errorf("redis mget: %w", err)
	}

	access, okA := vals[0].(string)
	refresh, okR := vals[1].(string)
	if !okA || !okR || access == "" || refresh == "" {
		// Either entry missing means no committed pair.
		return credstore.Pair{}, credstore.ErrNotFound
	}

	return credstore.Pair{Access: access, Refresh: refresh}, nil
}

func (s *Store) Set(ctx context.Context, pair credstore.Pair) error {
	err := s.client.MSet(ctx,
		s.accessKey(), pair.Access,
		s.refreshKey(), pair.Refresh,
	).Err()
	if err != nil {
		return fmt.Errorf("redis mset: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.accessKey(), s.refreshKey()).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
