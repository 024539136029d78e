package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

const (
	defaultAccessTTL     = 15 * time.Minute
	refreshTTLMultiplier = 5
)

// tokenClaims is the JWT payload: {"sub": "alice", "scopes": ["User"], "typ": "access", ...}.
type tokenClaims struct {
	Scopes []string `json:"scopes"`
	Type   string   `json:"typ"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager builds a manager. A zero accessTTL falls back to 15 minutes
// and a zero refreshTTL to five times the access TTL.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = accessTTL * refreshTTLMultiplier
	}
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *JWTManager) Issue(subject string, scopes []string, typ ports.TokenType) (string, *ports.TokenClaims, error) {
	ttl := m.accessTTL
	if typ == ports.TokenRefresh {
		ttl = m.refreshTTL
	}

	now := m.now()
	claims := tokenClaims{
		Scopes: scopes,
		Type:   string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, toPortClaims(&claims), nil
}

func (m *JWTManager) Verify(token string, typ ports.TokenType) (*ports.TokenClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrUnauthenticated
	}
	if claims.Subject == "" || ports.TokenType(claims.Type) != typ {
		return nil, domain.ErrUnauthenticated
	}
	return toPortClaims(&claims), nil
}

func toPortClaims(c *tokenClaims) *ports.TokenClaims {
	out := &ports.TokenClaims{
		ID:      c.ID,
		Subject: c.Subject,
		Scopes:  c.Scopes,
		Type:    ports.TokenType(c.Type),
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
