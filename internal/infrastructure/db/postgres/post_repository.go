package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

const postColumns = `p.post_id, p.title, p.content, pu.user_id, u.username, p.created_at`

const postFrom = `
	FROM posts p
	JOIN post_user pu ON pu.post_id = p.post_id
	JOIN users u ON u.user_id = pu.user_id`

// PostRepository implements ports.PostRepository and ports.OwnershipChecker.
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

var (
	_ ports.PostRepository   = (*PostRepository)(nil)
	_ ports.OwnershipChecker = (*PostRepository)(nil)
)

// Create inserts the post and its ownership link in one transaction.
func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO posts (title, content)
			VALUES ($1, $2)
			RETURNING post_id, created_at`,
			post.Title, post.Content,
		).Scan(&post.ID, &post.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO post_user (post_id, user_id) VALUES ($1, $2)`,
			post.ID, post.UserID,
		); err != nil {
			return fmt.Errorf("failed to link post owner: %w", err)
		}
		post.CreatedAt = post.CreatedAt.UTC()
		return nil
	})
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+postColumns+postFrom+` ORDER BY p.created_at DESC, p.post_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) Latest(ctx context.Context) (*domain.Post, error) {
	return r.one(ctx, r.db.Pool,
		`SELECT `+postColumns+postFrom+` ORDER BY p.created_at DESC, p.post_id DESC LIMIT 1`)
}

func (r *PostRepository) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	return r.one(ctx, r.db.Pool, `SELECT `+postColumns+postFrom+` WHERE p.post_id = $1`, id)
}

// Update rewrites title and content and reads the row back joined to its
// owner in the same statement.
func (r *PostRepository) Update(ctx context.Context, id int64, title, content string) (*domain.Post, error) {
	return r.one(ctx, r.db.Pool, `
		WITH p AS (
			UPDATE posts SET title = $2, content = $3
			WHERE post_id = $1
			RETURNING post_id, title, content, created_at
		)
		SELECT `+postColumns+`
		FROM p
		JOIN post_user pu ON pu.post_id = p.post_id
		JOIN users u ON u.user_id = pu.user_id`,
		id, title, content,
	)
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM posts WHERE post_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) IsOwner(ctx context.Context, postID, userID int64) (bool, error) {
	var owner bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_user WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&owner)
	if err != nil {
		return false, fmt.Errorf("failed to check post ownership: %w", err)
	}
	return owner, nil
}

func (r *PostRepository) one(ctx context.Context, q Querier, sql string, args ...any) (*domain.Post, error) {
	post, err := scanPost(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	post := &domain.Post{}
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.UserID,
		&post.Username,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return post, nil
}
