package ports

import (
	"context"

	"github.com/postboard/content-api/internal/core/domain"
)

// Ack is the confirmation returned by operations that produce no entity.
type Ack struct {
	Message string
}

// PostService defines the post use cases. Mutations take the identity
// resolved by the Gate; ownership is checked here, not in the handler.
type PostService interface {
	Create(ctx context.Context, actor *domain.Identity, title, content string) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	// Featured returns the newest post, or domain.PlaceholderPost when none exist.
	Featured(ctx context.Context) (*domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Update(ctx context.Context, actor *domain.Identity, id int64, title, content string) (*domain.Post, error)
	Delete(ctx context.Context, actor *domain.Identity, id int64) (*Ack, error)
}
