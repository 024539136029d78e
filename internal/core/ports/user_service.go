package ports

import (
	"context"

	"github.com/postboard/content-api/internal/core/domain"
)

// CreateUserInput is the DTO passed from the transport layer to UserService.
type CreateUserInput struct {
	Username string
	Email    string
	Password string // plaintext; hashed by the service
	Roles    []string
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Ban(ctx context.Context, username string) (*Ack, error)
}
