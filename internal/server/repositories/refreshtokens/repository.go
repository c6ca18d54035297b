// Package refreshtokens stores the live refresh token of every subject.
//
// The store is keyed by username: at most one refresh token per user is
// tracked and a later Put replaces the earlier one.
package refreshtokens

import (
	"context"
	"time"
)

// Repository is the credential store used by the session lifecycle.
type Repository interface {
	// Put stores token for username, replacing any previous value.
	// The entry expires after ttl.
	Put(ctx context.Context, username, token string, ttl time.Duration) error
	// Get returns the live token for username or common.ErrorNotFound.
	Get(ctx context.Context, username string) (string, error)
	// Delete removes the entry for username. Deleting a missing entry is not an error.
	Delete(ctx context.Context, username string) error
}

// Purger is implemented by stores that keep expired entries until they are
// explicitly removed.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}
