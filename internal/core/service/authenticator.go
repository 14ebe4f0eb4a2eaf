package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/constructia/platform-api/internal/core/domain"
	"github.com/constructia/platform-api/internal/core/ports"
)

// Authenticator validates credentials for both session kinds.
//
// Client precedence is strict: the compiled-in allow-list is consulted first
// and a match short-circuits the remote table: a remote row with the same
// email but a different password is unreachable while a local entry matches.
// Admin credentials are allow-list only; there is no remote admin lookup.
//
// Every failure mode resolves to a nil principal. Access-policy rejections
// from the remote table are indistinguishable from a missing user, and
// anything unexpected is logged and swallowed.
type Authenticator struct {
	clients  ports.ClientRepository
	allow    *AllowList
	verifier PasswordVerifier
	fallback string
	now      func() time.Time
	log      zerolog.Logger
}

// NewAuthenticator wires an Authenticator. fallbackPassword is the shared
// literal accepted for any remote row; empty disables it. A nil repo is
// allowed; the allow-list path keeps working with the remote store
// completely unreachable.
func NewAuthenticator(
	clients ports.ClientRepository,
	allow *AllowList,
	verifier PasswordVerifier,
	fallbackPassword string,
	log zerolog.Logger,
) *Authenticator {
	if allow == nil {
		allow = DefaultAllowList()
	}
	if verifier == nil {
		verifier = PlaintextVerifier{}
	}
	return &Authenticator{
		clients:  clients,
		allow:    allow,
		verifier: verifier,
		fallback: fallbackPassword,
		now:      time.Now,
		log:      log,
	}
}

// Authenticate resolves credentials to a principal. A nil principal with a
// nil error means no match; the error, when set, is always a domain sentinel
// kept for logging and never anything the HTTP layer must branch on beyond
// "unauthorized".
func (a *Authenticator) Authenticate(ctx context.Context, kind domain.SessionKind, identifier, password string) (principal *domain.Principal, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("kind", string(kind)).Msg("authenticate panicked, failing closed")
			principal, err = nil, domain.ErrInvalidCredentials
		}
	}()

	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	switch kind {
	case domain.KindClient:
		return a.authenticateClient(ctx, identifier, password)
	case domain.KindAdmin:
		if acct := a.allow.LookupAdmin(identifier, password, a.now().UTC()); acct != nil {
			return &domain.Principal{Kind: domain.KindAdmin, Admin: acct}, nil
		}
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, domain.ErrUnknownKind
	}
}

func (a *Authenticator) authenticateClient(ctx context.Context, email, password string) (*domain.Principal, error) {
	// 1. Allow-list wins over the remote table, always.
	if acct := a.allow.LookupClient(email, password); acct != nil {
		return &domain.Principal{Kind: domain.KindClient, Client: acct}, nil
	}

	if a.clients == nil {
		return nil, domain.ErrUserNotFound
	}

	// 2. Remote lookup. Policy rejections and empty results are the same
	// negative match; transient failures likewise fail closed.
	row, err := a.clients.FindByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrPermissionDenied):
			return nil, domain.ErrUserNotFound
		default:
			a.log.Warn().Err(err).Str("email", email).Msg("client lookup failed, failing closed")
			return nil, domain.ErrUserNotFound
		}
	}
	if row == nil {
		return nil, domain.ErrUserNotFound
	}

	// 3. Shared fallback literal or the row's stored password.
	if !a.matchesFallback(password) && !a.verifier.Verify(row.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}

	row.ApplyDefaults()
	return &domain.Principal{Kind: domain.KindClient, Client: row}, nil
}

func (a *Authenticator) matchesFallback(password string) bool {
	return a.fallback != "" && password == a.fallback
}
