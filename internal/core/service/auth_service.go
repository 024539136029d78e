package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// AuthService implements registration, password login and the refresh-token
// session lifecycle.
type AuthService struct {
	users   ports.UserRepository
	signup  ports.UserService
	issuer  ports.TokenIssuer
	tokens  ports.TokenVerifier
	revoker ports.TokenRevoker
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	signup ports.UserService,
	jwt *JWTManager,
	revoker ports.TokenRevoker,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		signup:  signup,
		issuer:  jwt,
		tokens:  jwt,
		revoker: revoker,
		log:     log,
	}
}

// Register creates a self-service account with the User role only.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	return s.signup.Create(ctx, ports.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Roles:    []string{domain.RoleUser},
	})
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error().Err(err).Str("username", username).Msg("login lookup failed")
		return nil, domain.StoreError(err, "failed to log in, please try again later")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, domain.ErrAccountDisabled
	}

	access, _, err := s.issuer.Issue(user.Username, user.Roles, ports.TokenAccess)
	if err != nil {
		return nil, domain.StoreError(err, "failed to issue token")
	}
	refresh, refreshClaims, err := s.issuer.Issue(user.Username, user.Roles, ports.TokenRefresh)
	if err != nil {
		return nil, domain.StoreError(err, "failed to issue token")
	}

	s.log.Info().Str("username", user.Username).Msg("login succeeded")
	return &ports.Session{
		Username:         user.Username,
		Roles:            user.Roles,
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshClaims.ExpiresAt,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.Session, error) {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.StoreError(err, "failed to refresh session, please try again later")
	}
	if user.Disabled {
		return nil, domain.ErrAccountDisabled
	}

	access, _, err := s.issuer.Issue(user.Username, user.Roles, ports.TokenAccess)
	if err != nil {
		return nil, domain.StoreError(err, "failed to issue token")
	}

	return &ports.Session{
		Username:         user.Username,
		Roles:            user.Roles,
		AccessToken:      access,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		s.log.Error().Err(err).Str("username", claims.Subject).Msg("failed to revoke refresh token")
		return domain.StoreError(err, "failed to log out, please try again later")
	}
	s.log.Info().Str("username", claims.Subject).Msg("logout")
	return nil
}

func (s *AuthService) verifyRefresh(ctx context.Context, refreshToken string) (*ports.TokenClaims, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := s.tokens.Verify(refreshToken, ports.TokenRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("revocation check failed")
		return nil, domain.StoreError(err, "failed to validate session, please try again later")
	}
	if revoked {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
