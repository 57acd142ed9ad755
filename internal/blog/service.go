package blog

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/media"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
	"github.com/2beens/quillhub/pkg/slug"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=blog_test

type postsRepo interface {
	CheckRefs(ctx context.Context, categoryID *int, tagIDs []int) error
	Create(ctx context.Context, post NewPost) (int, error)
	Get(ctx context.Context, id int) (*Post, error)
	GetVisible(ctx context.Context, postSlug string, scope visibility.Scope) (*Post, error)
	ReadAndCount(ctx context.Context, postSlug string, scope visibility.Scope) (*Post, error)
	List(ctx context.Context, scope visibility.Scope, filter ListFilter, params pagination.Params) ([]*Post, int, error)
	GetMany(ctx context.Context, ids []int) (map[int]*Post, error)
	Update(ctx context.Context, id int, update PostUpdate) error
	Delete(ctx context.Context, id int) error
	SetFeaturedImage(ctx context.Context, id int, ref string) (string, error)
	Statistics(ctx context.Context) (*Statistics, error)
}

type imageStore interface {
	Upload(ctx context.Context, kind media.Kind, field string, r io.Reader) (string, error)
	Discard(ctx context.Context, ref string) error
}

const (
	msgNotAuthenticated = "authentication credentials were not provided"
	msgNoPermission     = "You do not have permission to perform this action."
	msgPostNotFound     = "post not found"
)

type Service struct {
	repo    postsRepo
	images  imageStore
	metrics *metrics.Manager
}

func NewService(repo postsRepo, images imageStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		images:  images,
		metrics: metricsManager,
	}
}

func (s *Service) Create(ctx context.Context, viewer identity.Viewer, input PostInput) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.posts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated(msgNotAuthenticated)
	}
	if err := input.Normalize(false); err != nil {
		return nil, err
	}

	newPost := NewPost{
		Title:      *input.Title,
		Content:    *input.Content,
		AuthorID:   viewer.ID(),
		CategoryID: input.Category.Value,
		Status:     StatusDraft,
	}
	if input.Tags != nil {
		newPost.TagIDs = *input.Tags
	}
	if input.Status != nil {
		newPost.Status = *input.Status
	}
	if input.IsFeatured != nil {
		newPost.IsFeatured = *input.IsFeatured
	}
	if input.Slug != nil && *input.Slug != "" {
		newPost.Slug = slug.MakeMax(*input.Slug, maxSlugLen, fallbackSlug)
		newPost.Explicit = true
	} else {
		newPost.Slug = slug.MakeMax(newPost.Title, maxSlugLen, fallbackSlug)
	}

	if err := s.checkRefs(ctx, newPost.CategoryID, newPost.TagIDs); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, newPost)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlugTaken):
			return nil, apperr.Conflict("post with this slug already exists")
		case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrTagNotFound):
			return nil, refError(err, newPost.CategoryID)
		}
		return nil, apperr.Internal("create post", err)
	}

	if s.metrics != nil {
		s.metrics.CounterPostsCreated.Inc()
	}
	log.Debugf("post %d created by %s", id, viewer)

	return s.get(ctx, id)
}

func (s *Service) checkRefs(ctx context.Context, categoryID *int, tagIDs []int) error {
	err := s.repo.CheckRefs(ctx, categoryID, tagIDs)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrTagNotFound):
		return refError(err, categoryID)
	default:
		return apperr.Internal("check post references", err)
	}
}

func refError(err error, categoryID *int) error {
	if errors.Is(err, ErrCategoryNotFound) && categoryID != nil {
		return apperr.Field("category", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *categoryID))
	}
	return apperr.Field("tags", "one or more tags do not exist")
}

func (s *Service) get(ctx context.Context, id int) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("get post", err)
	}
	return post, nil
}

// Read returns a post the viewer may see and counts the view.
func (s *Service) Read(ctx context.Context, viewer identity.Viewer, postSlug string) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.posts.read")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	post, err := s.repo.ReadAndCount(ctx, postSlug, visibility.For(viewer))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("read post", err)
	}

	if s.metrics != nil {
		s.metrics.CounterPostViews.Inc()
	}
	return post, nil
}

// GetPublished returns a published post without counting a view.
func (s *Service) GetPublished(ctx context.Context, postSlug string) (*Post, error) {
	post, err := s.repo.GetVisible(ctx, postSlug, visibility.For(identity.Anonymous()))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("get post", err)
	}
	return post, nil
}

// GetMany returns the posts with the given ids in the same order, skipping unknown ids.
func (s *Service) GetMany(ctx context.Context, ids []int) ([]*Post, error) {
	byID, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("get posts", err)
	}
	posts := make([]*Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Service) List(
	ctx context.Context,
	viewer identity.Viewer,
	filter ListFilter,
	params pagination.Params,
) ([]*Post, int, error) {
	posts, total, err := s.repo.List(ctx, visibility.For(viewer), filter, params)
	if err != nil {
		return nil, 0, apperr.Internal("list posts", err)
	}
	return posts, total, nil
}

// MyPosts lists the viewer's own posts in any status.
func (s *Service) MyPosts(ctx context.Context, viewer identity.Viewer, params pagination.Params) ([]*Post, int, error) {
	if !viewer.IsAuthenticated() {
		return nil, 0, apperr.Unauthenticated(msgNotAuthenticated)
	}
	return s.List(ctx, viewer, ListFilter{AuthorID: viewer.ID()}, params)
}

// Drafts lists the viewer's own drafts.
func (s *Service) Drafts(ctx context.Context, viewer identity.Viewer, params pagination.Params) ([]*Post, int, error) {
	if !viewer.IsAuthenticated() {
		return nil, 0, apperr.Unauthenticated(msgNotAuthenticated)
	}
	return s.List(ctx, viewer, ListFilter{AuthorID: viewer.ID(), Status: StatusDraft}, params)
}

// editable resolves a post the viewer is allowed to change: anonymous
// viewers are rejected first, invisible posts are not found and only the
// author or staff pass.
func (s *Service) editable(ctx context.Context, viewer identity.Viewer, postSlug string) (*Post, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated(msgNotAuthenticated)
	}

	post, err := s.repo.GetVisible(ctx, postSlug, visibility.For(viewer))
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("get post", err)
	}

	if !viewer.CanManage(post.AuthorID) {
		return nil, apperr.PermissionDenied(msgNoPermission)
	}
	return post, nil
}

// Update changes a post. With partial unset title and content are required;
// other absent fields keep their value either way. The slug never changes.
func (s *Service) Update(
	ctx context.Context,
	viewer identity.Viewer,
	postSlug string,
	input PostInput,
	partial bool,
) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.posts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	post, err := s.editable(ctx, viewer, postSlug)
	if err != nil {
		return nil, err
	}
	if err := input.Normalize(partial); err != nil {
		return nil, err
	}

	update := PostUpdate{
		Title:      input.Title,
		Content:    input.Content,
		Category:   input.Category,
		TagIDs:     input.Tags,
		Status:     input.Status,
		IsFeatured: input.IsFeatured,
	}
	var tagIDs []int
	if update.TagIDs != nil {
		tagIDs = *update.TagIDs
	}
	if err := s.checkRefs(ctx, update.Category.Value, tagIDs); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, post.ID, update); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("update post", err)
	}

	return s.get(ctx, post.ID)
}

func (s *Service) Delete(ctx context.Context, viewer identity.Viewer, postSlug string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.posts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	post, err := s.editable(ctx, viewer, postSlug)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return apperr.NotFound(msgPostNotFound)
		}
		return apperr.Internal("delete post", err)
	}

	if post.FeaturedImage != "" {
		if err := s.images.Discard(ctx, post.FeaturedImage); err != nil {
			log.Errorf("discard featured image %s: %s", post.FeaturedImage, err)
		}
	}
	log.Debugf("post %d deleted by %s", post.ID, viewer)
	return nil
}

// UploadImage replaces the featured image of a post.
func (s *Service) UploadImage(ctx context.Context, viewer identity.Viewer, postSlug string, r io.Reader) (*Post, error) {
	post, err := s.editable(ctx, viewer, postSlug)
	if err != nil {
		return nil, err
	}

	ref, err := s.images.Upload(ctx, media.KindFeatured, "featured_image", r)
	if err != nil {
		return nil, err
	}

	previous, err := s.repo.SetFeaturedImage(ctx, post.ID, ref)
	if err != nil {
		if discardErr := s.images.Discard(ctx, ref); discardErr != nil {
			log.Errorf("discard featured image %s: %s", ref, discardErr)
		}
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound(msgPostNotFound)
		}
		return nil, apperr.Internal("set featured image", err)
	}

	if err := s.images.Discard(ctx, previous); err != nil {
		log.Errorf("discard previous featured image %s: %s", previous, err)
	}

	return s.get(ctx, post.ID)
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, apperr.Internal("post statistics", err)
	}
	return stats, nil
}
