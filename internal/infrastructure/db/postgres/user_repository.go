package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// userSelect aggregates role names per user; users without roles get '{}'.
const userSelect = `
	SELECT u.user_id, u.username, u.email, u.password, u.disabled, u.created_at,
	       COALESCE(array_agg(r.role_name ORDER BY r.role_id) FILTER (WHERE r.role_name IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.user_id
	LEFT JOIN roles r ON r.role_id = ur.role_id`

// UserRepository implements ports.UserRepository and ports.IdentityResolver.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

var (
	_ ports.UserRepository   = (*UserRepository)(nil)
	_ ports.IdentityResolver = (*UserRepository)(nil)
)

// Create resolves every role, inserts the user and its role links in one
// transaction. The first unknown role aborts the write.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		roleIDs := make([]int32, 0, len(user.Roles))
		for _, name := range user.Roles {
			var id int32
			err := tx.QueryRow(ctx, `SELECT role_id FROM roles WHERE role_name = $1`, name).Scan(&id)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domain.RoleNotFound(name)
				}
				return fmt.Errorf("failed to resolve role %q: %w", name, err)
			}
			roleIDs = append(roleIDs, id)
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password, disabled)
			VALUES ($1, $2, $3, false)
			RETURNING user_id, created_at`,
			user.Username, user.Email, user.PasswordHash,
		).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrUserExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		for _, roleID := range roleIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
				user.ID, roleID,
			); err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
		}
		user.Disabled = false
		user.CreatedAt = user.CreatedAt.UTC()
		return nil
	})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.one(ctx, userSelect+` WHERE u.username = $1 GROUP BY u.user_id`, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, userSelect+` WHERE u.email = $1 GROUP BY u.user_id`, email)
}

// List returns every user. The password column is replaced by the
// redaction marker in SQL so hashes never reach the process.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT u.user_id, u.username, u.email, $1::text, u.disabled, u.created_at,
		       COALESCE(array_agg(r.role_name ORDER BY r.role_id) FILTER (WHERE r.role_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.user_id
		LEFT JOIN roles r ON r.role_id = ur.role_id
		GROUP BY u.user_id
		ORDER BY u.user_id`,
		domain.RedactedPassword,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Ban is idempotent: re-banning still matches the row.
func (r *UserRepository) Ban(ctx context.Context, username string) error {
	result, err := r.db.Pool.Exec(ctx, `UPDATE users SET disabled = true WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindIdentity(ctx context.Context, username string) (*domain.Identity, error) {
	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

func (r *UserRepository) one(ctx context.Context, sql string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Disabled,
		&user.CreatedAt,
		&user.Roles,
	); err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}
