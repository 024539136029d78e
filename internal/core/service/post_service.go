package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

type PostService struct {
	repo   ports.PostRepository
	owners ports.OwnershipChecker
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, owners ports.OwnershipChecker, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, owners: owners, logger: logger}
}

// Create stores a new post owned by actor. The repository writes the post
// row and the ownership link in one transaction.
func (s *PostService) Create(ctx context.Context, actor *domain.Identity, title, content string) (*domain.Post, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	if title == "" || content == "" {
		return nil, domain.Validation("title and content are required")
	}

	post := &domain.Post{
		Title:    title,
		Content:  content,
		UserID:   actor.UserID,
		Username: actor.Username,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error().Err(err).Str("username", actor.Username).Msg("failed to create post")
		return nil, domain.StoreError(err, "failed to create the post, please try again later")
	}

	s.logger.Info().Int64("post_id", post.ID).Str("username", actor.Username).Msg("post created")
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, domain.StoreError(err, "failed to retrieve posts, please try again later")
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return posts, nil
}

// Featured returns the newest post. An empty store is not an error: the
// placeholder post is served instead.
func (s *PostService) Featured(ctx context.Context) (*domain.Post, error) {
	post, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return domain.PlaceholderPost(), nil
		}
		s.logger.Error().Err(err).Msg("failed to load featured post")
		return nil, domain.StoreError(err, "failed to retrieve post, please try again later")
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to load post")
		}
		return nil, domain.StoreError(err, "failed to retrieve post, please try again later")
	}
	return post, nil
}

// Update rewrites title and content of a post owned by actor.
func (s *PostService) Update(ctx context.Context, actor *domain.Identity, id int64, title, content string) (*domain.Post, error) {
	if title == "" || content == "" {
		return nil, domain.Validation("title and content are required")
	}
	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return nil, err
	}

	post, err := s.repo.Update(ctx, id, title, content)
	if err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to update post")
		}
		return nil, domain.StoreError(err, "failed to update post, please try again later")
	}

	s.logger.Info().Int64("post_id", id).Str("username", actor.Username).Msg("post updated")
	return post, nil
}

// Delete removes a post owned by actor.
func (s *PostService) Delete(ctx context.Context, actor *domain.Identity, id int64) (*ports.Ack, error) {
	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrPostNotFound) {
			s.logger.Error().Err(err).Int64("post_id", id).Msg("failed to delete post")
		}
		return nil, domain.StoreError(err, "failed to delete post, please try again later")
	}

	s.logger.Info().Int64("post_id", id).Str("username", actor.Username).Msg("post deleted")
	return &ports.Ack{Message: "Post deleted"}, nil
}

// authorizeOwner returns nil when actor owns post id, ErrForbidden when the
// post exists under another owner and ErrPostNotFound when it does not exist.
// Existence is probed only after the ownership check fails.
func (s *PostService) authorizeOwner(ctx context.Context, actor *domain.Identity, id int64) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	owner, err := s.owners.IsOwner(ctx, id, actor.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("post_id", id).Msg("ownership check failed")
		return domain.StoreError(err, "failed to check post ownership, please try again later")
	}
	if owner {
		return nil
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return domain.ErrPostNotFound
		}
		return domain.StoreError(err, "failed to retrieve post, please try again later")
	}

	s.logger.Warn().Int64("post_id", id).Str("username", actor.Username).Msg("ownership denied")
	return domain.ErrForbidden
}
