package auth

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/users"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=auth_test

type usersService interface {
	Register(ctx context.Context, newUser users.NewUser) (*users.User, error)
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
	Get(ctx context.Context, id int) (*users.User, error)
}

type tokenRevoker interface {
	revocationChecker
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Service struct {
	users       usersService
	tokens      *TokenService
	revocations tokenRevoker
}

func NewService(usersService usersService, tokens *TokenService, revocations tokenRevoker) *Service {
	return &Service{
		users:       usersService,
		tokens:      tokens,
		revocations: revocations,
	}
}

func subjectOf(user *users.User) Subject {
	return Subject{
		UserID:   user.ID,
		Username: user.Username,
		Staff:    user.IsStaff,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (_ *users.User, _ TokenPair, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.register")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := apperr.ValidateStruct(req); err != nil {
		return nil, TokenPair{}, err
	}

	user, err := s.users.Register(ctx, users.NewUser{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.tokens.Issue(subjectOf(user))
	if err != nil {
		return nil, TokenPair{}, apperr.Internal("issue tokens", err)
	}

	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (_ *users.User, _ TokenPair, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if req.Email == "" || req.Password == "" {
		return nil, TokenPair{}, apperr.Validation("Email and password are required", nil)
	}

	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			log.Tracef("failed login attempt for [%s]", req.Email)
			return nil, TokenPair{}, apperr.Unauthenticated("Invalid credentials")
		}
		return nil, TokenPair{}, apperr.Internal("authenticate", err)
	}

	pair, err := s.tokens.Issue(subjectOf(user))
	if err != nil {
		return nil, TokenPair{}, apperr.Internal("issue tokens", err)
	}

	return user, pair, nil
}

// Logout revokes the refresh token and, when one is given, the access token
// used for the request.
func (s *Service) Logout(ctx context.Context, refreshToken, accessToken string) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.logout")
	defer span.End()

	if refreshToken != "" {
		claims, err := s.tokens.Parse(refreshToken, TokenRefresh)
		if err != nil {
			return apperr.Validation("Invalid token", nil)
		}
		if err := s.revoke(ctx, claims); err != nil {
			return apperr.Internal("revoke refresh token", err)
		}
	}

	if accessToken != "" {
		if claims, err := s.tokens.Parse(accessToken, TokenAccess); err == nil {
			if err := s.revoke(ctx, claims); err != nil {
				return apperr.Internal("revoke access token", err)
			}
		}
	}

	return nil
}

func (s *Service) revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAt.Sub(s.tokens.Now())
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

// Refresh exchanges a valid refresh token for a new access token. The user is
// reloaded so role changes apply from the next access token on.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.service.refresh")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if refreshToken == "" {
		return "", apperr.Field("refresh_token", "this field is required")
	}

	claims, err := s.tokens.Parse(refreshToken, TokenRefresh)
	if err != nil {
		return "", apperr.Unauthenticated("token is invalid or expired")
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", apperr.Internal("check revocation", err)
	}
	if revoked {
		return "", apperr.Unauthenticated("token is invalid or expired")
	}

	userID, _ := claims.UserID()
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.Unauthenticated("token is invalid or expired")
		}
		return "", err
	}

	access, err := s.tokens.IssueAccess(subjectOf(user))
	if err != nil {
		return "", apperr.Internal("issue access token", err)
	}
	return access, nil
}
