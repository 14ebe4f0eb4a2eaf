package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
)

type stubClientRepo struct {
	rows map[string]*domain.ClientAccount
	err  error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{rows: make(map[string]*domain.ClientAccount)}
}

func (r *stubClientRepo) FindByEmail(_ context.Context, email string) (*domain.ClientAccount, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *row
	return &clone, nil
}

func newTestAuthenticator(repo *stubClientRepo, fallback string) *Authenticator {
	return NewAuthenticator(repo, DefaultAllowList(), PlaintextVerifier{}, fallback, zerolog.Nop())
}

func TestAuthenticate_AllowListClient(t *testing.T) {
	auth := newTestAuthenticator(newStubClientRepo(), "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "cliente@test.com", "password123")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if p == nil || p.Client == nil {
		t.Fatalf("expected client principal, got %+v", p)
	}
	if p.Client.ID != "test-client-001" {
		t.Fatalf("unexpected id: %s", p.Client.ID)
	}
	if p.Client.AvailableTokens != 5000 {
		t.Fatalf("unexpected tokens: %d", p.Client.AvailableTokens)
	}
}

func TestAuthenticate_AllowListWrongPassword(t *testing.T) {
	auth := newTestAuthenticator(newStubClientRepo(), "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "cliente@test.com", "wrongpass")
	if p != nil {
		t.Fatalf("expected nil principal, got %+v", p)
	}
	if err == nil {
		t.Fatalf("expected a sentinel error")
	}
}

// An email present both locally and remotely must resolve through the
// allow-list: the remote row's password never comes into play while a local
// entry matches the supplied password.
func TestAuthenticate_AllowListPrecedence(t *testing.T) {
	repo := newStubClientRepo()
	repo.rows["cliente@test.com"] = &domain.ClientAccount{
		ID:       "remote-999",
		Email:    "cliente@test.com",
		Password: "remotepass",
	}
	auth := newTestAuthenticator(repo, "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "cliente@test.com", "password123")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if p.Client.ID != "test-client-001" {
		t.Fatalf("expected allow-list profile, got %s", p.Client.ID)
	}

	// The remote password reaches the row only because no local entry matched.
	p, err = auth.Authenticate(context.Background(), domain.KindClient, "cliente@test.com", "remotepass")
	if err != nil {
		t.Fatalf("expected remote match, got %v", err)
	}
	if p.Client.ID != "remote-999" {
		t.Fatalf("expected remote profile, got %s", p.Client.ID)
	}
}

func TestAuthenticate_RemoteStoredPassword(t *testing.T) {
	repo := newStubClientRepo()
	repo.rows["obra@acme.es"] = &domain.ClientAccount{
		ID:       "client-42",
		Email:    "obra@acme.es",
		Password: "s3cret",
	}
	auth := newTestAuthenticator(repo, "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "obra@acme.es", "s3cret")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if p.Client.ID != "client-42" {
		t.Fatalf("unexpected id: %s", p.Client.ID)
	}
	// Missing quotas are defaulted on the way out.
	if p.Client.AvailableTokens != domain.DefaultAvailableTokens ||
		p.Client.MonthlyAllowance != domain.DefaultMonthlyAllowance ||
		p.Client.StorageLimitGB != domain.DefaultStorageLimitGB {
		t.Fatalf("defaults not applied: %+v", p.Client)
	}
}

func TestAuthenticate_FallbackLiteral(t *testing.T) {
	repo := newStubClientRepo()
	repo.rows["obra@acme.es"] = &domain.ClientAccount{
		ID:       "client-42",
		Email:    "obra@acme.es",
		Password: "s3cret",
	}
	auth := newTestAuthenticator(repo, "construct2024")

	if p, err := auth.Authenticate(context.Background(), domain.KindClient, "obra@acme.es", "construct2024"); err != nil || p == nil {
		t.Fatalf("fallback literal rejected: %v", err)
	}

	// Empty fallback config must not turn "" into a master key.
	auth = newTestAuthenticator(repo, "")
	if p, _ := auth.Authenticate(context.Background(), domain.KindClient, "obra@acme.es", ""); p != nil {
		t.Fatalf("empty password accepted")
	}
}

func TestAuthenticate_PermissionErrorFailsClosed(t *testing.T) {
	repo := newStubClientRepo()
	repo.err = domain.ErrPermissionDenied
	auth := newTestAuthenticator(repo, "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "obra@acme.es", "whatever")
	if p != nil {
		t.Fatalf("expected nil principal on policy rejection, got %+v", p)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("policy rejection must read as a miss, got %v", err)
	}
}

func TestAuthenticate_TransientErrorFailsClosed(t *testing.T) {
	repo := newStubClientRepo()
	repo.err = errors.New("connection reset by peer")
	auth := newTestAuthenticator(repo, "")

	p, err := auth.Authenticate(context.Background(), domain.KindClient, "obra@acme.es", "whatever")
	if p != nil {
		t.Fatalf("expected nil principal on transient failure, got %+v", p)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("transient failure must read as a miss, got %v", err)
	}
}

// The allow-list path keeps working with no remote store wired at all.
func TestAuthenticate_NoRepo(t *testing.T) {
	auth := NewAuthenticator(nil, DefaultAllowList(), PlaintextVerifier{}, "", zerolog.Nop())

	if p, err := auth.Authenticate(context.Background(), domain.KindClient, "cliente@test.com", "password123"); err != nil || p == nil {
		t.Fatalf("allow-list should not need the remote store: %v", err)
	}
	if p, _ := auth.Authenticate(context.Background(), domain.KindClient, "nobody@test.com", "x"); p != nil {
		t.Fatalf("expected miss without remote store")
	}
}

func TestAuthenticate_AdminRoles(t *testing.T) {
	auth := newTestAuthenticator(newStubClientRepo(), "")

	p, err := auth.Authenticate(context.Background(), domain.KindAdmin, "superadmin", "super2024")
	if err != nil || p == nil || p.Admin == nil {
		t.Fatalf("superadmin login failed: %v", err)
	}
	if p.Admin.Role != domain.RoleSuperAdmin {
		t.Fatalf("unexpected role: %s", p.Admin.Role)
	}
	if !p.Admin.HasPermission(domain.PermManageClients) {
		t.Fatalf("'all' permission should imply manage_clients")
	}

	p, err = auth.Authenticate(context.Background(), domain.KindAdmin, "admin", "admin2024")
	if err != nil || p == nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if p.Admin.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", p.Admin.Role)
	}
	if got := p.Admin.Permissions; len(got) != 3 {
		t.Fatalf("unexpected permissions: %v", got)
	}

	if p, _ := auth.Authenticate(context.Background(), domain.KindAdmin, "admin", "wrong"); p != nil {
		t.Fatalf("wrong admin password accepted")
	}
}

func TestAuthenticate_UnknownKind(t *testing.T) {
	auth := newTestAuthenticator(newStubClientRepo(), "")

	p, err := auth.Authenticate(context.Background(), domain.SessionKind("visitor"), "x", "y")
	if p != nil || !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %+v / %v", p, err)
	}
}

func TestPasswordVerifiers(t *testing.T) {
	if !(PlaintextVerifier{}).Verify("abc", "abc") {
		t.Fatalf("plaintext equality rejected")
	}
	if (PlaintextVerifier{}).Verify("abc", "abd") {
		t.Fatalf("plaintext mismatch accepted")
	}
	if (PlaintextVerifier{}).Verify("", "") {
		t.Fatalf("empty stored password must never match")
	}
}
