package social

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/blog"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=social_test

type socialRepo interface {
	ToggleReaction(ctx context.Context, userID, postID int, reactionType string) (ToggleResult, error)
	AddToReadingList(ctx context.Context, userID, postID int) (*ReadingEntry, error)
	RemoveFromReadingList(ctx context.Context, userID, postID int) error
	ReadingList(ctx context.Context, userID int, scope visibility.Scope, params pagination.Params) ([]*ReadingEntry, int, error)
}

type postFinder interface {
	GetPublished(ctx context.Context, postSlug string) (*blog.Post, error)
	GetMany(ctx context.Context, ids []int) ([]*blog.Post, error)
}

const msgNotAuthenticated = "authentication credentials were not provided"

type Service struct {
	repo    socialRepo
	posts   postFinder
	metrics *metrics.Manager
}

func NewService(repo socialRepo, posts postFinder, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		posts:   posts,
		metrics: metricsManager,
	}
}

// React toggles the viewer's reaction on a published post.
func (s *Service) React(ctx context.Context, viewer identity.Viewer, req ReactRequest) (_ ToggleResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.social.react")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !viewer.IsAuthenticated() {
		return ToggleResult{}, apperr.Unauthenticated(msgNotAuthenticated)
	}
	if err := apperr.ValidateStruct(req); err != nil {
		return ToggleResult{}, err
	}

	post, err := s.posts.GetPublished(ctx, req.PostSlug)
	if err != nil {
		return ToggleResult{}, err
	}

	result, err := s.repo.ToggleReaction(ctx, viewer.ID(), post.ID, req.ReactionType)
	if err != nil {
		return ToggleResult{}, apperr.Internal("toggle reaction", err)
	}

	action := "added"
	if result.Removed {
		action = "removed"
	}
	if s.metrics != nil {
		s.metrics.CounterReactions.WithLabelValues(req.ReactionType, action).Inc()
	}
	log.Tracef("%s %s reaction [%s] on post %d", viewer, action, req.ReactionType, post.ID)

	return result, nil
}

func (s *Service) AddToReadingList(ctx context.Context, viewer identity.Viewer, req ReadingListRequest) (*ReadingEntry, *blog.Post, error) {
	if !viewer.IsAuthenticated() {
		return nil, nil, apperr.Unauthenticated(msgNotAuthenticated)
	}
	if err := apperr.ValidateStruct(req); err != nil {
		return nil, nil, err
	}

	post, err := s.posts.GetPublished(ctx, req.PostSlug)
	if err != nil {
		return nil, nil, err
	}

	entry, err := s.repo.AddToReadingList(ctx, viewer.ID(), post.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyInReadingList) {
			return nil, nil, apperr.Conflict("Post already in reading list")
		}
		return nil, nil, apperr.Internal("add to reading list", err)
	}
	return entry, post, nil
}

func (s *Service) RemoveFromReadingList(ctx context.Context, viewer identity.Viewer, postSlug string) error {
	if !viewer.IsAuthenticated() {
		return apperr.Unauthenticated(msgNotAuthenticated)
	}

	post, err := s.posts.GetPublished(ctx, postSlug)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveFromReadingList(ctx, viewer.ID(), post.ID); err != nil {
		if errors.Is(err, ErrNotInReadingList) {
			return apperr.NotFound("Post not in reading list")
		}
		return apperr.Internal("remove from reading list", err)
	}
	return nil
}

// ReadingItem is a reading list entry with its post resolved.
type ReadingItem struct {
	Entry *ReadingEntry
	Post  *blog.Post
}

// ReadingList lists the viewer's saved posts. Posts that went back to draft
// stay in the list but are only shown to those who may still read them.
func (s *Service) ReadingList(ctx context.Context, viewer identity.Viewer, params pagination.Params) ([]ReadingItem, int, error) {
	if !viewer.IsAuthenticated() {
		return nil, 0, apperr.Unauthenticated(msgNotAuthenticated)
	}

	scope := visibility.For(viewer)
	entries, total, err := s.repo.ReadingList(ctx, viewer.ID(), scope, params)
	if err != nil {
		return nil, 0, apperr.Internal("list reading list", err)
	}

	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PostID)
	}
	posts, err := s.posts.GetMany(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int]*blog.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	items := make([]ReadingItem, 0, len(entries))
	for _, e := range entries {
		post, ok := byID[e.PostID]
		// the post may have changed status since the page was read
		if !ok || !scope.CanSeePost(string(post.Status), post.AuthorID) {
			continue
		}
		items = append(items, ReadingItem{Entry: e, Post: post})
	}
	return items, total, nil
}
