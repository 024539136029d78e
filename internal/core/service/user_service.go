package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	cost   int
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// Create registers a user with the requested roles. Every role must exist in
// the catalog; the first unknown one aborts the whole creation.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, domain.Validation("username, email and password are required")
	}

	roles := normalizeRoles(input.Roles)
	if len(roles) == 0 {
		return nil, domain.Validation("at least one role is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, domain.Validation("password cannot be hashed")
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        roles,
		Disabled:     false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		kind := domain.KindOf(err)
		if kind == domain.KindStore {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		} else {
			s.logger.Info().Str("username", username).Str("kind", string(kind)).Msg("user creation rejected")
		}
		return nil, domain.StoreError(err, "failed to create the user, please try again later")
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", username).Strs("roles", roles).Msg("user created")
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.lookupError(err, "username", username)
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, s.lookupError(err, "email", email)
	}
	return user, nil
}

// List returns every user. Password hashes never leave this method.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, domain.StoreError(err, "failed to retrieve users, please try again later")
	}
	if users == nil {
		users = []*domain.User{}
	}
	for _, u := range users {
		u.PasswordHash = domain.RedactedPassword
	}
	return users, nil
}

// Ban disables the account. Banning an already disabled user succeeds.
func (s *UserService) Ban(ctx context.Context, username string) (*ports.Ack, error) {
	if err := s.repo.Ban(ctx, username); err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to ban user")
		}
		return nil, domain.StoreError(err, "failed to ban the user, please try again later")
	}

	s.logger.Info().Str("username", username).Msg("user banned")
	return &ports.Ack{Message: "User successfully banned"}, nil
}

func (s *UserService) lookupError(err error, field, value string) error {
	if !errors.Is(err, domain.ErrUserNotFound) {
		s.logger.Error().Err(err).Str(field, value).Msg("failed to load user")
	}
	return domain.StoreError(err, "failed to retrieve user, please try again later")
}

// normalizeRoles trims names and drops blanks and duplicates, keeping order.
func normalizeRoles(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = strings.TrimSpace(r)
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
