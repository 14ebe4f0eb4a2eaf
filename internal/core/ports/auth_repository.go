package ports

import (
	"context"

	"github.com/constructia/platform-api/internal/core/domain"
)

// ClientRepository is the remote user table consumed by the Authenticator.
// FindByEmail is an exact, case-sensitive match returning at most one row.
// Implementations must map access-policy rejections to
// domain.ErrPermissionDenied and empty results to domain.ErrUserNotFound.
type ClientRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.ClientAccount, error)
}
