package service

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// GateState is the position of one admin entry attempt in the two-step flow.
type GateState string

const (
	GateAwaitingPassphrase  GateState = "awaiting_passphrase"
	GateAwaitingCredentials GateState = "awaiting_credentials"
	GateAuthenticated       GateState = "authenticated"
)

// gateTTL bounds how long an abandoned gate survives before Open recycles it.
const gateTTL = time.Hour

type gate struct {
	state     GateState
	createdAt time.Time
}

// AdminGate enforces the sequential admin entry flow: the shared passphrase
// must be verified before credentials are accepted at all. Wrong input keeps
// the gate in its current state; there is no lockout or retry limit. This is
// an ordering guarantee for the entry flow, not a security boundary; the
// credential check behind it is what authenticates.
type AdminGate struct {
	mu         sync.Mutex
	gates      map[string]*gate
	passphrase string
	auth       ports.Authenticator
	now        func() time.Time
	log        zerolog.Logger
}

// NewAdminGate builds the gate in front of the given authenticator.
func NewAdminGate(passphrase string, auth ports.Authenticator, log zerolog.Logger) *AdminGate {
	return &AdminGate{
		gates:      make(map[string]*gate),
		passphrase: passphrase,
		auth:       auth,
		now:        time.Now,
		log:        log,
	}
}

// Open creates a fresh gate in the awaiting_passphrase state and returns its
// token. Expired gates are swept here so abandoned attempts do not accumulate.
func (g *AdminGate) Open(_ context.Context) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for token, gt := range g.gates {
		if now.Sub(gt.createdAt) > gateTTL {
			delete(g.gates, token)
		}
	}

	token := uuid.NewString()
	g.gates[token] = &gate{state: GateAwaitingPassphrase, createdAt: now}
	return token
}

// State reports the current state of a gate, or "" for an unknown token.
func (g *AdminGate) State(token string) GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	gt, ok := g.gates[token]
	if !ok {
		return ""
	}
	return gt.state
}

// SubmitPassphrase advances an awaiting_passphrase gate to
// awaiting_credentials on a correct passphrase. A wrong passphrase leaves the
// gate where it is and reports domain.ErrInvalidPassphrase.
func (g *AdminGate) SubmitPassphrase(_ context.Context, token, passphrase string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	gt, ok := g.gates[token]
	if !ok {
		return domain.ErrGateNotFound
	}
	if gt.state != GateAwaitingPassphrase {
		// Already past this step; resubmitting is harmless.
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(g.passphrase), []byte(passphrase)) != 1 {
		return domain.ErrInvalidPassphrase
	}
	gt.state = GateAwaitingCredentials
	return nil
}

// SubmitCredentials authenticates the admin behind a gate that has already
// passed the passphrase step. A gate still awaiting its passphrase, or an
// unknown token, cannot reach the credential check.
func (g *AdminGate) SubmitCredentials(ctx context.Context, token, username, password string) (*domain.Principal, error) {
	g.mu.Lock()
	gt, ok := g.gates[token]
	if !ok {
		g.mu.Unlock()
		return nil, domain.ErrGateNotFound
	}
	if gt.state == GateAwaitingPassphrase {
		g.mu.Unlock()
		return nil, domain.ErrPassphraseRequired
	}
	g.mu.Unlock()

	principal, err := g.auth.Authenticate(ctx, domain.KindAdmin, username, password)
	if err != nil || principal == nil {
		return nil, domain.ErrInvalidCredentials
	}

	g.mu.Lock()
	gt.state = GateAuthenticated
	g.mu.Unlock()

	g.log.Info().Str("username", username).Msg("admin gate passed")
	return principal, nil
}
