package session

import (
	"context"
	"time"
)

// Identity is the record installed into a session on login. The three
// fields are written and cleared together; handlers either see all of them
// or none of them.
type Identity struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

// Store persists session records keyed by an opaque session id. Records
// expire server-side after the given TTL. Delete reports whether a live
// record was actually removed, so callers can tell a real logout from a
// re-presented dead token.
type Store interface {
	Set(ctx context.Context, sid string, identity Identity, ttl time.Duration) error
	Get(ctx context.Context, sid string) (Identity, bool, error)
	Delete(ctx context.Context, sid string) (bool, error)
}
