package ports

import (
	"context"
	"time"

	"github.com/constructia/platform-api/internal/core/domain"
)

// KVStore is the persisted key/value capability backing the session store.
// It mirrors browser local storage: flat string keys, string values, no
// transactions. Get returns ("", nil) for a missing key. TTL is advisory:
// adapters that cannot expire keys may ignore it; session expiry is enforced
// lazily by the SessionManager either way.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SessionManager owns the two per-kind session slots.
type SessionManager interface {
	// Establish snapshots the principal into a session record, overwriting any
	// prior session of the same kind. Returns false only if the store write
	// failed.
	Establish(ctx context.Context, principal *domain.Principal, kind domain.SessionKind) bool

	// Read returns the current session for kind, or nil when none exists, the
	// stored value is unparsable, or the record has exceeded its lifetime. The
	// latter two cases also clean up the stored keys.
	Read(ctx context.Context, kind domain.SessionKind) *domain.SessionRecord

	// Destroy removes every key associated with kind, including transient
	// sign-up keys. Idempotent.
	Destroy(ctx context.Context, kind domain.SessionKind)

	IsAuthenticated(ctx context.Context, kind domain.SessionKind) bool
}
