// Package social holds the reader interactions with published posts:
// reactions and the personal reading list.
package social

import (
	"errors"
	"time"
)

var (
	ErrAlreadyInReadingList = errors.New("post already in reading list")
	ErrNotInReadingList     = errors.New("post not in reading list")
)

const (
	ReactionLike     = "like"
	ReactionLove     = "love"
	ReactionBookmark = "bookmark"
)

type Reaction struct {
	ID        int
	UserID    int
	PostID    int
	Type      string
	CreatedAt time.Time
}

type ReadingEntry struct {
	ID      int
	UserID  int
	PostID  int
	AddedAt time.Time
}

type ReactRequest struct {
	PostSlug     string `json:"post_slug" validate:"required"`
	ReactionType string `json:"reaction_type" validate:"required,oneof=like love bookmark"`
}

type ReadingListRequest struct {
	PostSlug string `json:"post_slug" validate:"required"`
}

// ToggleResult is the outcome of a reaction toggle: either the created
// reaction or Removed set.
type ToggleResult struct {
	Reaction *Reaction
	Removed  bool
}
