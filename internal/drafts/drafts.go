// Package drafts is the durable cache for in-progress translations. Every
// record is scoped by the composite (user, session) key; no two sessions
// ever share a record, and within a session the controller is the only
// writer.
package drafts

import (
	"context"
	"fmt"
)

// Key scopes one persisted draft record.
type Key struct {
	UserID    int64
	SessionID string
}

// String renders the storage key in the drafts:{userId}:{sessionId} format.
func (k Key) String() string {
	return fmt.Sprintf("drafts:%d:%s", k.UserID, k.SessionID)
}

// Store is the persistence adapter for draft records. Save always writes
// the complete draft map, so storage holds a coherent snapshot at any
// point. Delete removes the record entirely.
//
// All failures are *StoreError; callers are expected to treat them as
// non-fatal and continue with in-memory state.
type Store interface {
	Load(ctx context.Context, key Key) (map[int64]string, error)
	Save(ctx context.Context, key Key, m map[int64]string) error
	Delete(ctx context.Context, key Key) error
}

// StoreError wraps a cache read/write failure.
type StoreError struct {
	Op  string
	Key Key
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("draft store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
