package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

type stubPostService struct {
	createFn   func(ctx context.Context, actor *domain.Identity, title, content string) (*domain.Post, error)
	listFn     func(ctx context.Context) ([]*domain.Post, error)
	featuredFn func(ctx context.Context) (*domain.Post, error)
	getFn      func(ctx context.Context, id int64) (*domain.Post, error)
	updateFn   func(ctx context.Context, actor *domain.Identity, id int64, title, content string) (*domain.Post, error)
	deleteFn   func(ctx context.Context, actor *domain.Identity, id int64) (*ports.Ack, error)
}

func (s *stubPostService) Create(ctx context.Context, actor *domain.Identity, title, content string) (*domain.Post, error) {
	return s.createFn(ctx, actor, title, content)
}

func (s *stubPostService) List(ctx context.Context) ([]*domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) Featured(ctx context.Context) (*domain.Post, error) {
	return s.featuredFn(ctx)
}

func (s *stubPostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) Update(ctx context.Context, actor *domain.Identity, id int64, title, content string) (*domain.Post, error) {
	return s.updateFn(ctx, actor, id, title, content)
}

func (s *stubPostService) Delete(ctx context.Context, actor *domain.Identity, id int64) (*ports.Ack, error) {
	return s.deleteFn(ctx, actor, id)
}

var alice = &domain.Identity{UserID: 1, Username: "alice", Roles: []string{domain.RoleUser}}

func TestPostHandler_Create_Success(t *testing.T) {
	stub := &stubPostService{
		createFn: func(_ context.Context, actor *domain.Identity, title, content string) (*domain.Post, error) {
			if actor.Username != "alice" || title != "Hello" || content != "World" {
				t.Fatalf("unexpected args: %+v %q %q", actor, title, content)
			}
			return &domain.Post{
				ID: 3, Title: title, Content: content, UserID: actor.UserID, Username: actor.Username,
				CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/posts", `{"title":"Hello","content":"World"}`, alice)

	if err := NewPostHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decode[postResponse](t, rec)
	if resp.PostID != 3 || resp.Username != "alice" || resp.UserID != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.CreatedAt != "2026-03-04 05:06:07" {
		t.Errorf("created_at = %q", resp.CreatedAt)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	stub := &stubPostService{
		createFn: func(context.Context, *domain.Identity, string, string) (*domain.Post, error) {
			t.Fatal("should not be called")
			return nil, nil
		},
	}

	for _, body := range []string{`{"title":"","content":"x"}`, `{"title":"x"}`, `not-json`} {
		c, _ := newContext(http.MethodPost, "/posts", body, alice)
		expectKind(t, NewPostHandler(stub).Create(c), domain.KindValidation)
	}
}

func TestPostHandler_Create_WithoutIdentity(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/posts", `{"title":"a","content":"b"}`, nil)
	expectKind(t, NewPostHandler(&stubPostService{}).Create(c), domain.KindUnauthenticated)
}

func TestPostHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubPostService{listFn: func(context.Context) ([]*domain.Post, error) { return []*domain.Post{}, nil }}
	c, rec := newContext(http.MethodGet, "/posts", "", nil)

	if err := NewPostHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestPostHandler_Featured_Placeholder(t *testing.T) {
	stub := &stubPostService{featuredFn: func(context.Context) (*domain.Post, error) { return domain.PlaceholderPost(), nil }}
	c, rec := newContext(http.MethodGet, "/posts/one", "", nil)

	if err := NewPostHandler(stub).Featured(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode[postResponse](t, rec)
	want := postResponse{
		PostID:    0,
		Title:     "Prendre soin de l'environement",
		Content:   "C'est important",
		UserID:    0,
		Username:  "Mike",
		CreatedAt: "2023-12-08 01:00:00",
	}
	if resp != want {
		t.Fatalf("got %+v, want %+v", resp, want)
	}
}

func TestPostHandler_Get(t *testing.T) {
	stub := &stubPostService{
		getFn: func(_ context.Context, id int64) (*domain.Post, error) {
			if id != 42 {
				return nil, domain.ErrPostNotFound
			}
			return &domain.Post{ID: 42, Title: "t"}, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/posts/42", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := NewPostHandler(stub).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode[postResponse](t, rec).PostID != 42 {
		t.Fatal("wrong post returned")
	}

	c, _ = newContext(http.MethodGet, "/posts/7", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("7")
	expectKind(t, NewPostHandler(stub).Get(c), domain.KindNotFound)

	c, _ = newContext(http.MethodGet, "/posts/abc", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	expectKind(t, NewPostHandler(stub).Get(c), domain.KindValidation)
}

func TestPostHandler_Update_PassesThroughForbidden(t *testing.T) {
	stub := &stubPostService{
		updateFn: func(_ context.Context, actor *domain.Identity, id int64, title, content string) (*domain.Post, error) {
			if actor.UserID != 1 || id != 9 || title != "n" || content != "c" {
				t.Fatalf("unexpected args")
			}
			return nil, domain.ErrForbidden
		},
	}
	c, _ := newContext(http.MethodPut, "/posts/9", `{"title":"n","content":"c"}`, alice)
	c.SetParamNames("id")
	c.SetParamValues("9")

	expectKind(t, NewPostHandler(stub).Update(c), domain.KindForbidden)
}

func TestPostHandler_Delete_Ack(t *testing.T) {
	stub := &stubPostService{
		deleteFn: func(_ context.Context, _ *domain.Identity, id int64) (*ports.Ack, error) {
			return &ports.Ack{Message: "Post deleted"}, nil
		},
	}
	c, rec := newContext(http.MethodDelete, "/posts/9", "", alice)
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := NewPostHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode[messageResponse](t, rec).Message != "Post deleted" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
