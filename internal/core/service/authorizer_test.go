package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

type countingResolver struct {
	*stubUserRepo
	calls int
}

func (r *countingResolver) FindIdentity(ctx context.Context, username string) (*domain.Identity, error) {
	r.calls++
	return r.stubUserRepo.FindIdentity(ctx, username)
}

func newGateFixture(t *testing.T) (*Authorizer, *JWTManager, *countingResolver, *UserService) {
	t.Helper()
	repo := newStubUserRepo()
	resolver := &countingResolver{stubUserRepo: repo}
	tokens := NewJWTManager("secret", time.Minute, 0)
	return NewAuthorizer(tokens, resolver, discardLogger), tokens, resolver, newTestUserService(repo)
}

func issue(t *testing.T, m *JWTManager, subject string, scopes ...string) string {
	t.Helper()
	tok, _, err := m.Issue(subject, scopes, ports.TokenAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func TestAuthorizer_Success(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "alice", domain.RoleUser)

	id, err := gate.Authorize(context.Background(), issue(t, tokens, "alice", domain.RoleUser), domain.RoleUser)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if id.Username != "alice" || id.UserID == 0 {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthorizer_NoScopesRequired(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "alice", domain.RoleUser)

	if _, err := gate.Authorize(context.Background(), issue(t, tokens, "alice")); err != nil {
		t.Fatalf("authorize without scopes: %v", err)
	}
}

func TestAuthorizer_RejectsBadCredentials(t *testing.T) {
	gate, tokens, resolver, _ := newGateFixture(t)

	other := NewJWTManager("other-secret", time.Minute, 0)
	refresh, _, _ := tokens.Issue("alice", nil, ports.TokenRefresh)

	cases := map[string]string{
		"empty":         "",
		"malformed":     "not-a-token",
		"wrong secret":  issue(t, other, "alice"),
		"refresh token": refresh,
	}
	for name, cred := range cases {
		_, err := gate.Authorize(context.Background(), cred)
		if domain.KindOf(err) != domain.KindUnauthenticated {
			t.Errorf("%s: expected unauthenticated, got %v", name, err)
		}
	}
	if resolver.calls != 0 {
		t.Errorf("identity must not be looked up for invalid credentials, got %d calls", resolver.calls)
	}
}

func TestAuthorizer_ExpiredToken(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "alice", domain.RoleUser)

	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale := issue(t, tokens, "alice")
	tokens.now = time.Now

	_, err := gate.Authorize(context.Background(), stale)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	var de *domain.Error
	if errors.As(err, &de) && de.Message != domain.ErrTokenExpired.Message {
		t.Errorf("unexpected message %q", de.Message)
	}
}

func TestAuthorizer_UnknownSubject(t *testing.T) {
	gate, tokens, _, _ := newGateFixture(t)

	_, err := gate.Authorize(context.Background(), issue(t, tokens, "ghost", domain.RoleAdmin))
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestAuthorizer_DisabledAccount(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "mallory", domain.RoleUser)
	token := issue(t, tokens, "mallory", domain.RoleUser)

	if _, err := users.Ban(context.Background(), "mallory"); err != nil {
		t.Fatalf("ban: %v", err)
	}

	_, err := gate.Authorize(context.Background(), token, domain.RoleUser)
	if !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled for token issued before the ban, got %v", err)
	}
}

func TestAuthorizer_ScopesComeFromStoreNotToken(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "alice", domain.RoleUser)

	// The token claims Admin but the stored roles do not include it.
	forged := issue(t, tokens, "alice", domain.RoleUser, domain.RoleAdmin)
	if _, err := gate.Authorize(context.Background(), forged, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientScope) {
		t.Fatalf("expected ErrInsufficientScope, got %v", err)
	}
}

func TestAuthorizer_EveryScopeRequired(t *testing.T) {
	gate, tokens, _, users := newGateFixture(t)
	mustCreateUser(t, users, "root", domain.RoleUser, domain.RoleAdmin)
	mustCreateUser(t, users, "alice", domain.RoleUser)

	if _, err := gate.Authorize(context.Background(), issue(t, tokens, "root"), domain.RoleUser, domain.RoleAdmin); err != nil {
		t.Fatalf("root should hold both scopes: %v", err)
	}
	if _, err := gate.Authorize(context.Background(), issue(t, tokens, "alice"), domain.RoleUser, domain.RoleAdmin); !errors.Is(err, domain.ErrInsufficientScope) {
		t.Fatalf("expected ErrInsufficientScope, got %v", err)
	}
}

func TestAuthorizer_FreshLookupEveryCall(t *testing.T) {
	gate, tokens, resolver, users := newGateFixture(t)
	mustCreateUser(t, users, "alice", domain.RoleUser)
	token := issue(t, tokens, "alice")

	for i := 0; i < 3; i++ {
		if _, err := gate.Authorize(context.Background(), token); err != nil {
			t.Fatalf("authorize #%d: %v", i+1, err)
		}
	}
	if resolver.calls != 3 {
		t.Fatalf("expected one lookup per call, got %d", resolver.calls)
	}
}

func TestAuthorizer_StoreFailure(t *testing.T) {
	gate, tokens, resolver, _ := newGateFixture(t)
	resolver.err = errors.New("too many connections")

	_, err := gate.Authorize(context.Background(), issue(t, tokens, "alice"))
	if domain.KindOf(err) != domain.KindStore {
		t.Fatalf("expected store_error, got %v", err)
	}
}
