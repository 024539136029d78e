package handler

import (
	"time"

	"github.com/postboard/content-api/internal/core/domain"
	"github.com/postboard/content-api/internal/core/ports"
)

// errorResponse documents the envelope rendered by the central error handler.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toMessageResponse(ack *ports.Ack) messageResponse {
	return messageResponse{Message: ack.Message}
}

// --- Posts ---

type postRequest struct {
	Title   string `json:"title"   validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type postResponse struct {
	PostID    int64  `json:"post_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		PostID:    p.ID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		Username:  p.Username,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

// --- Users ---

type createUserRequest struct {
	Username string   `json:"username" validate:"required,max=64"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles"    validate:"required,min=1,dive,required"`
}

// userResponse never carries the password hash: the field always holds the
// redaction marker.
type userResponse struct {
	UserID    int64    `json:"user_id"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	Disabled  bool     `json:"disabled"`
	CreatedAt string   `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Password:  domain.RedactedPassword,
		Email:     u.Email,
		Roles:     roles,
		Disabled:  u.Disabled,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// tokenRequest accepts JSON or an OAuth2 password form.
type tokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
}

func toTokenResponse(s *ports.Session) tokenResponse {
	return tokenResponse{
		Username:    s.Username,
		Roles:       s.Roles,
		AccessToken: s.AccessToken,
		TokenType:   "bearer",
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(domain.TimestampLayout)
}
