package middleware

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/auth"
	"github.com/2beens/quillhub/internal/identity"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=middleware_test

type viewerResolver interface {
	ViewerFor(ctx context.Context, bearer string) (identity.Viewer, error)
}

// Identity resolves the bearer token into a viewer stored on the request
// context. Requests without a token continue as anonymous, requests with a
// bad token are rejected. A failing revocation lookup is an internal error.
func Identity(resolver viewerResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token := auth.BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(identity.WithViewer(r.Context(), identity.Anonymous())))
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.identity")
			viewer, err := resolver.ViewerFor(ctx, token)
			if err != nil {
				span.RecordError(err)
				if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrTokenRevoked) {
					span.SetStatus(codes.Error, "resolve-failed")
					span.End()
					apperr.Write(w, r, apperr.Internal("resolve viewer", err))
					return
				}
				log.Tracef("[identity middleware] rejected token for %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "invalid-token")
				span.End()
				apperr.Write(w, r, apperr.Unauthenticated("token is invalid or expired"))
				return
			}
			span.SetAttributes(attribute.String("viewer", viewer.String()))
			span.SetStatus(codes.Ok, "ok")
			span.End()

			next.ServeHTTP(w, r.WithContext(identity.WithViewer(r.Context(), viewer)))
		})
	}
}
