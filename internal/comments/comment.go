package comments

import (
	"errors"
	"time"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPostNotFound    = errors.New("post not found")
)

type Comment struct {
	ID             int
	PostID         int
	AuthorID       *int
	AuthorUsername string
	Email          string
	Content        string
	IsApproved     bool
	CreatedAt      time.Time
}

// Label is the name shown next to a comment: the author's username, the
// stored email for anonymous comments, or "Anonymous".
func (c *Comment) Label() string {
	switch {
	case c.AuthorID != nil && c.AuthorUsername != "":
		return c.AuthorUsername
	case c.Email != "":
		return c.Email
	default:
		return "Anonymous"
	}
}

// OwnedBy reports whether userID wrote the comment.
func (c *Comment) OwnedBy(userID int) bool {
	return c.AuthorID != nil && *c.AuthorID == userID
}

type Payload struct {
	ID         int       `json:"id"`
	AuthorName string    `json:"author_name"`
	Email      string    `json:"email"`
	Content    string    `json:"content"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewPayload(c *Comment) Payload {
	return Payload{
		ID:         c.ID,
		AuthorName: c.Label(),
		Email:      c.Email,
		Content:    c.Content,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
	}
}

func NewPayloads(comments []*Comment) []Payload {
	payloads := make([]Payload, 0, len(comments))
	for _, c := range comments {
		payloads = append(payloads, NewPayload(c))
	}
	return payloads
}

// NewComment is the input of a comment submission.
type NewComment struct {
	PostSlug string `json:"post_slug" validate:"required"`
	Content  string `json:"content" validate:"required,max=5000"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
}

type Update struct {
	Content string `json:"content" validate:"required,max=5000"`
}
