package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/media"
	"github.com/2beens/quillhub/internal/pagination"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/pkg"
)

const maxUsernameAttempts = 1000

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=users_test

type usersRepo interface {
	Create(ctx context.Context, user *User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetMany(ctx context.Context, ids []int) (map[int]*User, error)
	List(ctx context.Context, params pagination.Params) ([]*User, int, error)
	CreateProfile(ctx context.Context, userID int) error
	UpdateProfile(ctx context.Context, userID int, update ProfileUpdate) error
	SetAvatar(ctx context.Context, userID int, ref string) (string, error)
	Follow(ctx context.Context, followerID, followingID int) (*Follow, error)
	Unfollow(ctx context.Context, followerID, followingID int) error
	Followers(ctx context.Context, userID int, params pagination.Params) ([]*Follow, int, error)
	Following(ctx context.Context, userID int, params pagination.Params) ([]*Follow, int, error)
	FollowingAmong(ctx context.Context, followerID int, ids []int) (map[int]bool, error)
}

type avatarStore interface {
	Upload(ctx context.Context, kind media.Kind, field string, r io.Reader) (string, error)
	Discard(ctx context.Context, ref string) error
}

type Service struct {
	repo         usersRepo
	avatars      avatarStore
	metrics      *metrics.Manager
	hooks        []CreatedHook
	passwordCost int
}

func NewService(
	repo usersRepo,
	avatars avatarStore,
	metricsManager *metrics.Manager,
	passwordCost int,
) *Service {
	return &Service{
		repo:         repo,
		avatars:      avatars,
		metrics:      metricsManager,
		passwordCost: passwordCost,
	}
}

// OnCreated registers a hook run, in registration order, after each registration.
func (s *Service) OnCreated(hook CreatedHook) {
	s.hooks = append(s.hooks, hook)
}

// UsernameCandidate returns the n-th username tried for an email: the local
// part for n == 0, then the local part followed by n.
func UsernameCandidate(email string, n int) string {
	base, _, _ := strings.Cut(email, "@")
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n)
}

func (s *Service) Register(ctx context.Context, newUser NewUser) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := s.repo.EmailExists(ctx, newUser.Email)
	if err != nil {
		return nil, apperr.Internal("check email", err)
	}
	if exists {
		return nil, apperr.Validation("User with this email already exists", map[string]string{
			"email": "user with this email already exists",
		})
	}

	passwordHash, err := pkg.HashPasswordWithCost(newUser.Password, s.passwordCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	user := &User{
		Email:        newUser.Email,
		PasswordHash: passwordHash,
		FirstName:    newUser.FirstName,
		LastName:     newUser.LastName,
	}

	for attempt := 0; ; attempt++ {
		if attempt == maxUsernameAttempts {
			return nil, apperr.Internal("create user", errors.New("no free username"))
		}
		user.Username = UsernameCandidate(newUser.Email, attempt)
		err = s.repo.Create(ctx, user)
		if errors.Is(err, ErrUsernameTaken) {
			continue
		}
		break
	}
	switch {
	case errors.Is(err, ErrEmailTaken):
		return nil, apperr.Validation("User with this email already exists", map[string]string{
			"email": "user with this email already exists",
		})
	case err != nil:
		return nil, apperr.Internal("create user", err)
	}

	log.Debugf("user %d registered as [%s]", user.ID, user.Username)
	for _, hook := range s.hooks {
		if err := hook(ctx, user); err != nil {
			return nil, apperr.Internal("user created hook", err)
		}
	}

	return user, nil
}

// Authenticate returns the user matching the credentials or ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.authenticate")
	defer span.End()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, id int) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("get user", err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, params pagination.Params) ([]*User, int, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperr.Internal("list users", err)
	}
	return users, total, nil
}

// FollowingAmong reports which of the given users the viewer follows.
// Anonymous viewers follow nobody.
func (s *Service) FollowingAmong(ctx context.Context, viewer identity.Viewer, ids []int) (map[int]bool, error) {
	if viewer.IsAnonymous() || len(ids) == 0 {
		return map[int]bool{}, nil
	}
	following, err := s.repo.FollowingAmong(ctx, viewer.ID(), ids)
	if err != nil {
		return nil, apperr.Internal("check following", err)
	}
	return following, nil
}

func (s *Service) Me(ctx context.Context, viewer identity.Viewer) (*User, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated("authentication credentials were not provided")
	}
	return s.Get(ctx, viewer.ID())
}

func (s *Service) UpdateProfile(ctx context.Context, viewer identity.Viewer, update ProfileUpdate) (*User, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated("authentication credentials were not provided")
	}
	if err := apperr.ValidateStruct(update); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, viewer.ID(), update); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrProfileNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, apperr.Internal("update profile", err)
	}

	return s.Get(ctx, viewer.ID())
}

// UploadAvatar stores a new avatar image and drops the one it replaces.
func (s *Service) UploadAvatar(ctx context.Context, viewer identity.Viewer, r io.Reader) (*User, error) {
	if !viewer.IsAuthenticated() {
		return nil, apperr.Unauthenticated("authentication credentials were not provided")
	}

	ref, err := s.avatars.Upload(ctx, media.KindAvatar, "avatar", r)
	if err != nil {
		return nil, err
	}

	previous, err := s.repo.SetAvatar(ctx, viewer.ID(), ref)
	if err != nil {
		if discardErr := s.avatars.Discard(ctx, ref); discardErr != nil {
			log.Errorf("discard avatar %s: %s", ref, discardErr)
		}
		if errors.Is(err, ErrProfileNotFound) {
			return nil, apperr.NotFound("profile not found")
		}
		return nil, apperr.Internal("set avatar", err)
	}

	if err := s.avatars.Discard(ctx, previous); err != nil {
		log.Errorf("discard previous avatar %s: %s", previous, err)
	}

	return s.Get(ctx, viewer.ID())
}

func (s *Service) Follow(ctx context.Context, viewer identity.Viewer, targetID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.follow")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !viewer.IsAuthenticated() {
		return apperr.Unauthenticated("authentication credentials were not provided")
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}
	if viewer.Owns(targetID) {
		return apperr.Validation("Cannot follow yourself", nil)
	}

	if _, err := s.repo.Follow(ctx, viewer.ID(), targetID); err != nil {
		if errors.Is(err, ErrAlreadyFollowing) {
			return apperr.Conflict("Already following this user")
		}
		return apperr.Internal("follow", err)
	}

	s.countFollow("follow")
	return nil
}

func (s *Service) Unfollow(ctx context.Context, viewer identity.Viewer, targetID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.users.unfollow")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !viewer.IsAuthenticated() {
		return apperr.Unauthenticated("authentication credentials were not provided")
	}
	if _, err := s.Get(ctx, targetID); err != nil {
		return err
	}
	if viewer.Owns(targetID) {
		return apperr.Validation("Cannot follow yourself", nil)
	}

	if err := s.repo.Unfollow(ctx, viewer.ID(), targetID); err != nil {
		if errors.Is(err, ErrNotFollowing) {
			return apperr.Validation("Not following this user", nil)
		}
		return apperr.Internal("unfollow", err)
	}

	s.countFollow("unfollow")
	return nil
}

func (s *Service) countFollow(action string) {
	if s.metrics != nil {
		s.metrics.CounterFollows.WithLabelValues(action).Inc()
	}
}

// FollowEntry is a follow row with both users resolved.
type FollowEntry struct {
	Follow    *Follow
	Follower  *User
	Following *User
}

func (s *Service) Followers(ctx context.Context, userID int, params pagination.Params) ([]FollowEntry, int, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, 0, err
	}
	follows, total, err := s.repo.Followers(ctx, userID, params)
	if err != nil {
		return nil, 0, apperr.Internal("list followers", err)
	}
	entries, err := s.resolveFollows(ctx, follows)
	return entries, total, err
}

func (s *Service) Following(ctx context.Context, userID int, params pagination.Params) ([]FollowEntry, int, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, 0, err
	}
	follows, total, err := s.repo.Following(ctx, userID, params)
	if err != nil {
		return nil, 0, apperr.Internal("list following", err)
	}
	entries, err := s.resolveFollows(ctx, follows)
	return entries, total, err
}

func (s *Service) resolveFollows(ctx context.Context, follows []*Follow) ([]FollowEntry, error) {
	ids := make([]int, 0, len(follows)*2)
	for _, f := range follows {
		ids = append(ids, f.FollowerID, f.FollowingID)
	}

	users, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("load follow users", err)
	}

	entries := make([]FollowEntry, 0, len(follows))
	for _, f := range follows {
		follower, following := users[f.FollowerID], users[f.FollowingID]
		if follower == nil || following == nil {
			continue
		}
		entries = append(entries, FollowEntry{
			Follow:    f,
			Follower:  follower,
			Following: following,
		})
	}
	return entries, nil
}
