package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
)

func newTestGate() *AdminGate {
	auth := NewAuthenticator(nil, DefaultAllowList(), PlaintextVerifier{}, "", zerolog.Nop())
	return NewAdminGate("obra-secreta", auth, zerolog.Nop())
}

func TestAdminGate_StartsAwaitingPassphrase(t *testing.T) {
	g := newTestGate()
	token := g.Open(context.Background())

	if got := g.State(token); got != GateAwaitingPassphrase {
		t.Fatalf("fresh gate in state %q", got)
	}
}

// Valid credentials must be unreachable until the passphrase step is passed.
func TestAdminGate_CredentialsBeforePassphrase(t *testing.T) {
	g := newTestGate()
	token := g.Open(context.Background())

	p, err := g.SubmitCredentials(context.Background(), token, "superadmin", "super2024")
	if p != nil {
		t.Fatalf("credentials accepted without passphrase")
	}
	if !errors.Is(err, domain.ErrPassphraseRequired) {
		t.Fatalf("expected ErrPassphraseRequired, got %v", err)
	}
	if got := g.State(token); got != GateAwaitingPassphrase {
		t.Fatalf("state advanced to %q", got)
	}
}

func TestAdminGate_WrongPassphraseKeepsState(t *testing.T) {
	g := newTestGate()
	token := g.Open(context.Background())

	if err := g.SubmitPassphrase(context.Background(), token, "wrong"); !errors.Is(err, domain.ErrInvalidPassphrase) {
		t.Fatalf("expected ErrInvalidPassphrase, got %v", err)
	}
	if got := g.State(token); got != GateAwaitingPassphrase {
		t.Fatalf("state advanced to %q on wrong passphrase", got)
	}

	// No lockout: the next correct attempt still works.
	if err := g.SubmitPassphrase(context.Background(), token, "obra-secreta"); err != nil {
		t.Fatalf("correct passphrase rejected: %v", err)
	}
	if got := g.State(token); got != GateAwaitingCredentials {
		t.Fatalf("expected awaiting_credentials, got %q", got)
	}
}

func TestAdminGate_FullFlow(t *testing.T) {
	g := newTestGate()
	token := g.Open(context.Background())

	if err := g.SubmitPassphrase(context.Background(), token, "obra-secreta"); err != nil {
		t.Fatalf("passphrase: %v", err)
	}

	// Wrong credentials keep the gate open for another try.
	if p, _ := g.SubmitCredentials(context.Background(), token, "superadmin", "nope"); p != nil {
		t.Fatalf("wrong credentials accepted")
	}
	if got := g.State(token); got != GateAwaitingCredentials {
		t.Fatalf("expected awaiting_credentials after failed login, got %q", got)
	}

	p, err := g.SubmitCredentials(context.Background(), token, "superadmin", "super2024")
	if err != nil || p == nil || p.Admin == nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := g.State(token); got != GateAuthenticated {
		t.Fatalf("expected authenticated, got %q", got)
	}
}

func TestAdminGate_UnknownToken(t *testing.T) {
	g := newTestGate()

	if err := g.SubmitPassphrase(context.Background(), "nope", "obra-secreta"); !errors.Is(err, domain.ErrGateNotFound) {
		t.Fatalf("expected ErrGateNotFound, got %v", err)
	}
	if _, err := g.SubmitCredentials(context.Background(), "nope", "admin", "admin2024"); !errors.Is(err, domain.ErrGateNotFound) {
		t.Fatalf("expected ErrGateNotFound, got %v", err)
	}
}

func TestAdminGate_ExpiredGatesSwept(t *testing.T) {
	g := newTestGate()
	base := time.Now()
	g.now = func() time.Time { return base }

	stale := g.Open(context.Background())

	g.now = func() time.Time { return base.Add(2 * time.Hour) }
	g.Open(context.Background())

	if got := g.State(stale); got != "" {
		t.Fatalf("stale gate survived sweep: %q", got)
	}
}
