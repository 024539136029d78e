package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// Authorizer is the authorization gate. Every call re-reads the subject from
// the datastore because roles and the disabled flag can change after the
// token was issued; the scopes claim inside the token is never trusted.
type Authorizer struct {
	tokens     ports.TokenVerifier
	identities ports.IdentityResolver
	log        zerolog.Logger
}

func NewAuthorizer(tokens ports.TokenVerifier, identities ports.IdentityResolver, log zerolog.Logger) *Authorizer {
	return &Authorizer{tokens: tokens, identities: identities, log: log}
}

// Authorize resolves credential to an identity holding every required scope.
func (a *Authorizer) Authorize(ctx context.Context, credential string, required ...string) (*domain.Identity, error) {
	if credential == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := a.tokens.Verify(credential, ports.TokenAccess)
	if err != nil {
		return nil, err
	}

	identity, err := a.identities.FindIdentity(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		a.log.Error().Err(err).Str("subject", claims.Subject).Msg("identity lookup failed")
		return nil, domain.StoreError(err, "could not resolve identity, please try again later")
	}

	if identity.Disabled {
		return nil, domain.ErrAccountDisabled
	}

	if scope, missing := identity.MissingScope(required); missing {
		a.log.Debug().Str("username", identity.Username).Str("scope", scope).Msg("scope denied")
		return nil, domain.ErrInsufficientScope
	}

	return identity, nil
}
