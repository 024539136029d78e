package domain

import "time"

// TimestampLayout is the wire format for post timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Post is a piece of content owned by exactly one user.
//
// ID, CreatedAt and the owner (UserID, Username) are fixed at creation;
// only Title and Content change afterwards.
type Post struct {
	ID        int64
	Title     string
	Content   string
	UserID    int64
	Username  string
	CreatedAt time.Time
}

// PlaceholderPost is the featured post served when no post exists yet.
// Older clients render it verbatim, so its fields must not change.
func PlaceholderPost() *Post {
	return &Post{
		ID:        0,
		Title:     "Prendre soin de l'environement",
		Content:   "C'est important",
		UserID:    0,
		Username:  "Mike",
		CreatedAt: time.Date(2023, time.December, 8, 1, 0, 0, 0, time.UTC),
	}
}
