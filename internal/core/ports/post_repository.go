package ports

import (
	"context"

	"github.com/postboard/content-api/internal/core/domain"
)

// PostRepository persists posts together with their ownership link.
type PostRepository interface {
	// Create inserts the post and its ownership link atomically, filling in
	// the store-assigned ID and CreatedAt.
	Create(ctx context.Context, post *domain.Post) error
	// List returns every post, newest first (created_at DESC, post_id DESC).
	List(ctx context.Context) ([]*domain.Post, error)
	// Latest returns the newest post or domain.ErrPostNotFound.
	Latest(ctx context.Context) (*domain.Post, error)
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// Update rewrites title and content and returns the stored post.
	// Zero affected rows yields domain.ErrPostNotFound.
	Update(ctx context.Context, id int64, title, content string) (*domain.Post, error)
	// Delete removes the post; the ownership link cascades.
	Delete(ctx context.Context, id int64) error
}

// OwnershipChecker answers whether a user owns a post. A missing link is a
// plain false; only datastore failures are errors.
type OwnershipChecker interface {
	IsOwner(ctx context.Context, postID, userID int64) (bool, error)
}
