package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// Key suffixes stored per kind. keySession holds the JSON session record;
// the rest are convenience mirrors kept for the legacy dashboard. The two
// temp suffixes only exist mid-registration but are always swept by Destroy.
const (
	keyID             = "_id"
	keyEmail          = "_email"
	keySession        = "_session"
	keyLoginTimestamp = "_login_timestamp"

	keyTempID                = "_temp_id"
	keyRegistrationTimestamp = "_registration_timestamp"
)

// SessionManager persists at most one session per kind in an injected
// KVStore. The two kinds are fully independent namespaces. Expiry is lazy:
// a record past its lifetime is only detected, and cleaned up, when read.
type SessionManager struct {
	store ports.KVStore
	now   func() time.Time
	log   zerolog.Logger
}

// NewSessionManager wires a SessionManager over the given store.
func NewSessionManager(store ports.KVStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, now: time.Now, log: log}
}

// WithClock replaces the time source. Intended for tests.
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Establish snapshots the principal into a session record keyed by kind,
// overwriting any prior session of that kind. Returns false only when the
// store write fails.
func (m *SessionManager) Establish(ctx context.Context, principal *domain.Principal, kind domain.SessionKind) bool {
	if principal == nil || !kind.Valid() {
		return false
	}

	now := m.now().UTC()
	record := domain.SessionRecord{
		Kind:      kind,
		LoginTime: now,
		Client:    principal.Client,
		Admin:     principal.Admin,
	}

	blob, err := json.Marshal(record)
	if err != nil {
		m.log.Error().Err(err).Str("kind", string(kind)).Msg("marshal session record")
		return false
	}

	prefix := kind.StoragePrefix()
	writes := map[string]string{
		prefix + keySession:        string(blob),
		prefix + keyID:             principal.ID(),
		prefix + keyEmail:          principal.Email(),
		prefix + keyLoginTimestamp: strconv.FormatInt(now.UnixMilli(), 10),
	}
	for key, value := range writes {
		if err := m.store.Set(ctx, key, value, domain.SessionTTL); err != nil {
			m.log.Error().Err(err).Str("key", key).Msg("persist session key")
			return false
		}
	}
	return true
}

// Read returns the live session for kind. Missing, unparsable, and expired
// records all read as nil; the latter two also destroy the stored keys so a
// later read starts clean.
func (m *SessionManager) Read(ctx context.Context, kind domain.SessionKind) *domain.SessionRecord {
	if !kind.Valid() {
		return nil
	}

	blob, err := m.store.Get(ctx, kind.StoragePrefix()+keySession)
	if err != nil {
		m.log.Warn().Err(err).Str("kind", string(kind)).Msg("session read failed")
		return nil
	}
	if blob == "" {
		return nil
	}

	var record domain.SessionRecord
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		m.log.Warn().Err(err).Str("kind", string(kind)).Msg("corrupt session record, clearing")
		m.Destroy(ctx, kind)
		return nil
	}

	if record.ExpiredAt(m.now()) {
		m.log.Info().Str("kind", string(kind)).Time("login_time", record.LoginTime).Msg("session expired, clearing")
		m.Destroy(ctx, kind)
		return nil
	}

	return &record
}

// Destroy removes every key associated with kind, transient sign-up keys
// included. Destroying an absent session is a no-op.
func (m *SessionManager) Destroy(ctx context.Context, kind domain.SessionKind) {
	if !kind.Valid() {
		return
	}
	prefix := kind.StoragePrefix()
	keys := []string{
		prefix + keySession,
		prefix + keyID,
		prefix + keyEmail,
		prefix + keyLoginTimestamp,
		prefix + keyTempID,
		prefix + keyRegistrationTimestamp,
	}
	if err := m.store.Delete(ctx, keys...); err != nil {
		m.log.Warn().Err(err).Str("kind", string(kind)).Msg("session destroy failed")
	}
}

// IsAuthenticated reports whether a live session exists for kind.
func (m *SessionManager) IsAuthenticated(ctx context.Context, kind domain.SessionKind) bool {
	return m.Read(ctx, kind) != nil
}
