package auth

import (
	"context"
	"fmt"

	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
)

type revocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Checker turns a bearer access token into the viewer it was issued for.
type Checker struct {
	tokens      *TokenService
	revocations revocationChecker
}

func NewChecker(tokens *TokenService, revocations revocationChecker) *Checker {
	return &Checker{
		tokens:      tokens,
		revocations: revocations,
	}
}

func (c *Checker) ViewerFor(ctx context.Context, bearer string) (_ identity.Viewer, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.checker.viewerFor")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	claims, err := c.tokens.Parse(bearer, TokenAccess)
	if err != nil {
		return identity.Anonymous(), err
	}

	revoked, err := c.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return identity.Anonymous(), fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return identity.Anonymous(), ErrTokenRevoked
	}

	userID, _ := claims.UserID()
	if claims.Staff {
		return identity.Staff(userID, claims.Username), nil
	}
	return identity.Member(userID, claims.Username), nil
}
