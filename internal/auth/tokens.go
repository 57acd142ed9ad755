package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
	issuer            = "quillhub"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Username string    `json:"username"`
	Staff    bool      `json:"staff,omitempty"`
	Type     TokenType `json:"type"`
}

func (c *Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService signs and verifies HS256 tokens. Every token carries a
// random jti so it can be revoked on its own.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	// replaceable in tests
	Now func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		Now:        time.Now,
	}
}

type Subject struct {
	UserID   int
	Username string
	Staff    bool
}

func (ts *TokenService) Issue(subject Subject) (TokenPair, error) {
	access, err := ts.sign(subject, TokenAccess, ts.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := ts.sign(subject, TokenRefresh, ts.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (ts *TokenService) IssueAccess(subject Subject) (string, error) {
	return ts.sign(subject, TokenAccess, ts.accessTTL)
}

func (ts *TokenService) sign(subject Subject, tokenType TokenType, ttl time.Duration) (string, error) {
	now := ts.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.Itoa(subject.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: subject.Username,
		Staff:    subject.Staff,
		Type:     tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and type of a token.
func (ts *TokenService) Parse(token string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) {
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Type != expected {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, expected, claims.Type)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
