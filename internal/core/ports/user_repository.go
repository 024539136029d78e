package ports

import (
	"context"

	"github.com/postboard/content-api/internal/core/domain"
)

// UserRepository handles user persistence and role assignment.
type UserRepository interface {
	// Create inserts the user and one role link per entry in user.Roles in a
	// single transaction. An unknown role name aborts the whole write with a
	// role_not_found error.
	Create(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns all users; PasswordHash is always domain.RedactedPassword.
	List(ctx context.Context) ([]*domain.User, error)
	// Ban sets disabled=true. It is idempotent and returns
	// domain.ErrUserNotFound for an unknown username.
	Ban(ctx context.Context, username string) error
}

// IdentityResolver performs the fresh per-request identity lookup.
type IdentityResolver interface {
	FindIdentity(ctx context.Context, username string) (*domain.Identity, error)
}
