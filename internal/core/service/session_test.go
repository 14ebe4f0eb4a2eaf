package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
)

type memKV struct {
	data    map[string]string
	failSet bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	return m.data[key], nil
}

func (m *memKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	if m.failSet {
		return errors.New("write refused")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{
		Kind: domain.KindClient,
		Client: &domain.ClientAccount{
			ID:    "test-client-001",
			Email: "cliente@test.com",
		},
	}
}

func testAdminPrincipal() *domain.Principal {
	return &domain.Principal{
		Kind: domain.KindAdmin,
		Admin: &domain.AdminAccount{
			ID:       "admin-superadmin",
			Username: "superadmin",
			Email:    "superadmin@constructia.com",
		},
	}
}

func TestSession_EstablishThenRead(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	if ok := m.Establish(context.Background(), testAdminPrincipal(), domain.KindAdmin); !ok {
		t.Fatalf("establish failed")
	}

	rec := m.Read(context.Background(), domain.KindAdmin)
	if rec == nil {
		t.Fatalf("expected session record")
	}
	if rec.Kind != domain.KindAdmin {
		t.Fatalf("unexpected kind: %s", rec.Kind)
	}
	if rec.Email() != "superadmin@constructia.com" {
		t.Fatalf("unexpected email: %s", rec.Email())
	}
	if kv.data["constructia_admin_id"] != "admin-superadmin" {
		t.Fatalf("mirror keys not written: %v", kv.data)
	}
}

func TestSession_LazyExpiry(t *testing.T) {
	kv := newMemKV()
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	m := NewSessionManager(kv, zerolog.Nop()).WithClock(func() time.Time { return clock })

	m.Establish(context.Background(), testPrincipal(), domain.KindClient)

	// Just inside the window.
	clock = base.Add(24*time.Hour - time.Second)
	if m.Read(context.Background(), domain.KindClient) == nil {
		t.Fatalf("session expired early")
	}

	// Past the window: nil, and the keys are gone.
	clock = base.Add(25 * time.Hour)
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("expired session still readable")
	}
	for key := range kv.data {
		t.Fatalf("leftover key after expiry cleanup: %s", key)
	}
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("session resurrected after cleanup")
	}
}

func TestSession_ExpiryBoundary(t *testing.T) {
	kv := newMemKV()
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	m := NewSessionManager(kv, zerolog.Nop()).WithClock(func() time.Time { return clock })

	m.Establish(context.Background(), testPrincipal(), domain.KindClient)

	// Exactly 24h counts as expired.
	clock = base.Add(24 * time.Hour)
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("session readable at exact TTL boundary")
	}
}

func TestSession_KindIndependence(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	m.Establish(context.Background(), testAdminPrincipal(), domain.KindAdmin)
	m.Establish(context.Background(), testPrincipal(), domain.KindClient)

	if m.Read(context.Background(), domain.KindAdmin) == nil {
		t.Fatalf("client login disturbed admin session")
	}

	m.Destroy(context.Background(), domain.KindClient)
	if m.Read(context.Background(), domain.KindAdmin) == nil {
		t.Fatalf("client logout destroyed admin session")
	}
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("client session survived destroy")
	}
}

func TestSession_EstablishOverwrites(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	m.Establish(context.Background(), testPrincipal(), domain.KindClient)

	other := &domain.Principal{
		Kind:   domain.KindClient,
		Client: &domain.ClientAccount{ID: "client-2", Email: "otra@acme.es"},
	}
	m.Establish(context.Background(), other, domain.KindClient)

	rec := m.Read(context.Background(), domain.KindClient)
	if rec == nil || rec.Client.ID != "client-2" {
		t.Fatalf("second establish did not replace the first: %+v", rec)
	}
}

func TestSession_IdempotentDestroy(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	m.Establish(context.Background(), testPrincipal(), domain.KindClient)
	m.Destroy(context.Background(), domain.KindClient)
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("session readable after destroy")
	}
	m.Destroy(context.Background(), domain.KindClient)
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("session readable after double destroy")
	}
}

func TestSession_DestroySweepsTransientKeys(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	kv.data["constructia_client_temp_id"] = "tmp-1"
	kv.data["constructia_client_registration_timestamp"] = "1748800000000"
	m.Establish(context.Background(), testPrincipal(), domain.KindClient)

	m.Destroy(context.Background(), domain.KindClient)
	if len(kv.data) != 0 {
		t.Fatalf("transient keys survived destroy: %v", kv.data)
	}
}

func TestSession_CorruptRecordReadsAsNil(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	kv.data["constructia_client_session"] = "{not json"
	if m.Read(context.Background(), domain.KindClient) != nil {
		t.Fatalf("corrupt record read as a session")
	}
	if _, ok := kv.data["constructia_client_session"]; ok {
		t.Fatalf("corrupt record not cleaned up")
	}
}

func TestSession_EstablishReportsWriteFailure(t *testing.T) {
	kv := newMemKV()
	kv.failSet = true
	m := NewSessionManager(kv, zerolog.Nop())

	if ok := m.Establish(context.Background(), testPrincipal(), domain.KindClient); ok {
		t.Fatalf("establish reported success on write failure")
	}
}

func TestSession_IsAuthenticated(t *testing.T) {
	kv := newMemKV()
	m := NewSessionManager(kv, zerolog.Nop())

	if m.IsAuthenticated(context.Background(), domain.KindClient) {
		t.Fatalf("authenticated with no session")
	}
	m.Establish(context.Background(), testPrincipal(), domain.KindClient)
	if !m.IsAuthenticated(context.Background(), domain.KindClient) {
		t.Fatalf("not authenticated with live session")
	}
}
