// Package credstore persists the session's credential pair. The store is an
// opaque key-value surface: the session layer only ever reads the latest
// committed pair, writes a whole pair, or clears both entries together.
package credstore

import (
	"context"
	"errors"
)

// Storage keys used by drivers that persist the two entries independently.
const (
	KeyAccess  = "access_credential"
	KeyRefresh = "refresh_credential"
)

// ErrNotFound reports that no credential pair is persisted (either entry
// missing counts as no pair).
var ErrNotFound = errors.New("credstore: not found")

// Pair is the persisted credential pair. The two values are only ever
// committed together; a partially written pair must never be observable.
type Pair struct {
	Access  string
	Refresh string
}

// Store is the credential persistence contract. Writes come only from the
// refresh coordinator and the login/logout transitions; the request attach
// step only reads.
type Store interface {
	// Get returns the latest committed pair, or ErrNotFound.
	Get(ctx context.Context) (Pair, error)

	// Set commits a whole pair atomically.
	Set(ctx context.Context, pair Pair) error

	// Clear removes both entries. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
