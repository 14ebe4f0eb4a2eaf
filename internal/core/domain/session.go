package domain

import (
	"errors"
	"time"
)

// SessionKind selects one of the two independent session namespaces.
type SessionKind string

const (
	KindClient SessionKind = "client"
	KindAdmin  SessionKind = "admin"
)

// SessionTTL is the fixed lifetime of every session. Expiry is lazy: it is
// only detected on read, never swept in the background.
const SessionTTL = 24 * time.Hour

var ErrUnknownKind = errors.New("unknown session kind")

// Valid reports whether k is one of the two recognised kinds.
func (k SessionKind) Valid() bool {
	return k == KindClient || k == KindAdmin
}

// StoragePrefix returns the key prefix under which this kind's session
// state is persisted.
func (k SessionKind) StoragePrefix() string {
	if k == KindAdmin {
		return "constructia_admin"
	}
	return "constructia_client"
}

// SessionRecord is the persisted snapshot of an authenticated principal.
// At most one record exists per kind; establishing a new one overwrites it.
type SessionRecord struct {
	Kind      SessionKind    `json:"type"`
	LoginTime time.Time      `json:"loginTime"`
	Client    *ClientAccount `json:"client,omitempty"`
	Admin     *AdminAccount  `json:"admin,omitempty"`
}

// Principal rebuilds the principal captured in the record.
func (r *SessionRecord) Principal() *Principal {
	return &Principal{Kind: r.Kind, Client: r.Client, Admin: r.Admin}
}

// Email returns the session owner's email.
func (r *SessionRecord) Email() string {
	return r.Principal().Email()
}

// ExpiredAt reports whether the record has outlived SessionTTL at the given
// instant. The boundary itself counts as expired.
func (r *SessionRecord) ExpiredAt(now time.Time) bool {
	return !now.Before(r.LoginTime.Add(SessionTTL))
}
