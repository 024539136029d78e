package ports

import (
	"context"
	"time"

	"github.com/postboard/content-api/internal/core/domain"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenClaims is the decoded, verified content of a bearer credential.
type TokenClaims struct {
	ID        string
	Subject   string
	Scopes    []string
	Type      TokenType
	ExpiresAt time.Time
}

// TokenIssuer signs new credentials.
type TokenIssuer interface {
	Issue(subject string, scopes []string, typ TokenType) (string, *TokenClaims, error)
}

// TokenVerifier decodes a credential and checks its signature, expiry and type.
type TokenVerifier interface {
	Verify(token string, typ TokenType) (*TokenClaims, error)
}

// TokenRevoker tracks refresh tokens invalidated by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Gate is the authorization gate: it resolves a credential to a live
// identity and checks it holds every required scope.
type Gate interface {
	Authorize(ctx context.Context, credential string, required ...string) (*domain.Identity, error)
}

// Session is what a successful login or refresh hands back to the caller.
type Session struct {
	Username         string
	Roles            []string
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
}
