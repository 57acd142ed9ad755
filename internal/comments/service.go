package comments

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/visibility"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=comments_test

type commentsRepo interface {
	PublishedPostID(ctx context.Context, slug string) (int, error)
	Create(ctx context.Context, comment *Comment) error
	Get(ctx context.Context, id int, scope visibility.Scope) (*Comment, error)
	List(ctx context.Context, scope visibility.Scope, postSlug string, params pagination.Params) ([]*Comment, int, error)
	ForPost(ctx context.Context, postID int, scope visibility.Scope) ([]*Comment, error)
	ApprovedCount(ctx context.Context, postID int) (int, error)
	UpdateContent(ctx context.Context, id int, content string) error
	Approve(ctx context.Context, id int) error
	Delete(ctx context.Context, id int) error
}

const (
	msgNotAuthenticated = "authentication credentials were not provided"
	msgNoPermission     = "You do not have permission to perform this action."
)

type Service struct {
	repo    commentsRepo
	metrics *metrics.Manager
}

func NewService(repo commentsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (s *Service) List(
	ctx context.Context,
	viewer identity.Viewer,
	postSlug string,
	params pagination.Params,
) ([]*Comment, int, error) {
	comments, total, err := s.repo.List(ctx, visibility.For(viewer), postSlug, params)
	if err != nil {
		return nil, 0, apperr.Internal("list comments", err)
	}
	return comments, total, nil
}

func (s *Service) Get(ctx context.Context, viewer identity.Viewer, id int) (*Comment, error) {
	comment, err := s.repo.Get(ctx, id, visibility.For(viewer))
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, apperr.NotFound("comment not found")
		}
		return nil, apperr.Internal("get comment", err)
	}
	return comment, nil
}

// ForPost returns the comments of a post the viewer may read, oldest first.
func (s *Service) ForPost(ctx context.Context, viewer identity.Viewer, postID int) ([]*Comment, error) {
	comments, err := s.repo.ForPost(ctx, postID, visibility.For(viewer))
	if err != nil {
		return nil, apperr.Internal("list post comments", err)
	}
	return comments, nil
}

func (s *Service) ApprovedCount(ctx context.Context, postID int) (int, error) {
	count, err := s.repo.ApprovedCount(ctx, postID)
	if err != nil {
		return 0, apperr.Internal("count comments", err)
	}
	return count, nil
}

// Create stores a new, unapproved comment on a published post. Members
// comment under their account; anonymous visitors must leave an email.
func (s *Service) Create(ctx context.Context, viewer identity.Viewer, input NewComment) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.comments.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	input.Content = strings.TrimSpace(input.Content)
	input.Email = strings.TrimSpace(input.Email)
	if err := apperr.ValidateStruct(input); err != nil {
		return nil, err
	}

	comment := &Comment{Content: input.Content}
	if viewer.IsAuthenticated() {
		authorID := viewer.ID()
		comment.AuthorID = &authorID
		comment.AuthorUsername = viewer.Username()
	} else {
		if input.Email == "" {
			return nil, apperr.Field("email", "Email required for anonymous comments")
		}
		comment.Email = input.Email
	}

	comment.PostID, err = s.repo.PublishedPostID(ctx, input.PostSlug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal("resolve post", err)
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, apperr.Internal("create comment", err)
	}

	if s.metrics != nil {
		s.metrics.CounterComments.Inc()
	}
	log.Debugf("comment %d added to post %d by %s", comment.ID, comment.PostID, viewer)
	return comment, nil
}

// Update replaces the content of a comment. Only its author and staff may do that.
func (s *Service) Update(ctx context.Context, viewer identity.Viewer, id int, update Update) (*Comment, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated(msgNotAuthenticated)
	}

	update.Content = strings.TrimSpace(update.Content)
	if err := apperr.ValidateStruct(update); err != nil {
		return nil, err
	}

	comment, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff() && !comment.OwnedBy(viewer.ID()) {
		return nil, apperr.PermissionDenied(msgNoPermission)
	}

	if err := s.repo.UpdateContent(ctx, id, update.Content); err != nil {
		return nil, s.mutationError("update comment", err)
	}
	comment.Content = update.Content
	return comment, nil
}

func (s *Service) Delete(ctx context.Context, viewer identity.Viewer, id int) error {
	if err := requireStaff(viewer); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mutationError("delete comment", err)
	}
	log.Debugf("comment %d deleted by %s", id, viewer)
	return nil
}

func (s *Service) Approve(ctx context.Context, viewer identity.Viewer, id int) error {
	if err := requireStaff(viewer); err != nil {
		return err
	}
	if err := s.repo.Approve(ctx, id); err != nil {
		return s.mutationError("approve comment", err)
	}
	return nil
}

func (s *Service) mutationError(action string, err error) error {
	if errors.Is(err, ErrCommentNotFound) {
		return apperr.NotFound("comment not found")
	}
	return apperr.Internal(action, err)
}

func requireStaff(viewer identity.Viewer) error {
	switch {
	case !viewer.IsAuthenticated():
		return apperr.Unauthenticated(msgNotAuthenticated)
	case !viewer.IsStaff():
		return apperr.PermissionDenied(msgNoPermission)
	default:
		return nil
	}
}
