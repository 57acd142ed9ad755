package blog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/quillhub/internal/apperr"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrSlugTaken        = errors.New("slug taken")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrNameTaken        = errors.New("name taken")
)

const (
	maxTitleLen    = 200
	minTitleLen    = 5
	minContentLen  = 10
	maxSlugLen     = 200
	fallbackSlug   = "post"
	msgTitleShort  = "Title must be at least 5 characters long."
	msgContentShrt = "Content must be at least 10 characters long."
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID            int
	Title         string
	Slug          string
	Content       string
	AuthorID      int
	AuthorName    string
	Category      *Category
	Tags          []Tag
	FeaturedImage string
	Status        Status
	IsFeatured    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ViewsCount    int
}

// OptionalInt tells an explicit JSON null apart from a missing field.
type OptionalInt struct {
	Set   bool
	Value *int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// PostInput is the body of create, full update and partial update requests.
// Nil fields are left untouched on partial updates.
type PostInput struct {
	Title      *string     `json:"title"`
	Slug       *string     `json:"slug"`
	Content    *string     `json:"content"`
	Category   OptionalInt `json:"category"`
	Tags       *[]int      `json:"tags"`
	Status     *Status     `json:"status"`
	IsFeatured *bool       `json:"is_featured"`
}

// Normalize trims the text fields and validates them. With partial set only
// the present fields are checked, otherwise title and content are required.
func (in *PostInput) Normalize(partial bool) error {
	fields := map[string]string{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
		switch n := utf8.RuneCountInString(title); {
		case n < minTitleLen:
			fields["title"] = msgTitleShort
		case n > maxTitleLen:
			fields["title"] = fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLen)
		}
	} else if !partial {
		fields["title"] = "this field is required"
	}

	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		in.Content = &content
		if utf8.RuneCountInString(content) < minContentLen {
			fields["content"] = msgContentShrt
		}
	} else if !partial {
		fields["content"] = "this field is required"
	}

	if in.Status != nil && !in.Status.Valid() {
		fields["status"] = fmt.Sprintf("%q is not a valid choice.", string(*in.Status))
	}

	if in.Slug != nil {
		s := strings.TrimSpace(*in.Slug)
		in.Slug = &s
		if utf8.RuneCountInString(s) > maxSlugLen {
			fields["slug"] = fmt.Sprintf("ensure this field has no more than %d characters", maxSlugLen)
		}
	}

	if len(fields) == 0 {
		return nil
	}
	message := "invalid input"
	for _, key := range []string{"title", "content", "status", "slug"} {
		if msg, ok := fields[key]; ok {
			message = msg
			break
		}
	}
	return apperr.Validation(message, fields)
}

// NewPost holds a validated post about to be stored.
type NewPost struct {
	Title      string
	Slug       string
	Explicit   bool
	Content    string
	AuthorID   int
	CategoryID *int
	TagIDs     []int
	Status     Status
	IsFeatured bool
}

// PostUpdate holds validated changes. Nil fields keep their stored value.
type PostUpdate struct {
	Title      *string
	Content    *string
	Category   OptionalInt
	TagIDs     *[]int
	Status     *Status
	IsFeatured *bool
}

type MostViewed struct {
	Title string
	Slug  string
	Views int
}

type Statistics struct {
	TotalPosts int
	TotalViews int64
	MostViewed *MostViewed
}
