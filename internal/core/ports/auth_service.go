package ports

import (
	"context"

	"github.com/constructia/platform-api/internal/core/domain"
)

// Authenticator validates credentials and returns the matching principal.
// It is total: every failure mode resolves to (nil, nil) or a domain sentinel
// carried for logging only, never a panic or infrastructure error.
type Authenticator interface {
	Authenticate(ctx context.Context, kind domain.SessionKind, identifier, password string) (*domain.Principal, error)
}

// AdminGate drives the two-step admin entry flow: a shared passphrase must be
// verified before credentials are even accepted.
type AdminGate interface {
	Open(ctx context.Context) (token string)
	SubmitPassphrase(ctx context.Context, token, passphrase string) error
	SubmitCredentials(ctx context.Context, token, username, password string) (*domain.Principal, error)
}
