// Package persist keeps the session across restarts: a single save slot
// holding the serialised game state, a display flag, and the migration of
// older save formats.
package persist

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// KV is a byte-oriented key/value store. Delete of a missing key succeeds.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Check reports whether the backing store is reachable.
	Check(ctx context.Context) error
}
