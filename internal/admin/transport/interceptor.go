package transport

import (
	"context"
	"net/http"

	"ojadmin/internal/admin/session"
	"ojadmin/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource yields the current bearer token, "" when logged out.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Invalidator ends the session on authorization failure.
type Invalidator interface {
	Invalidate(ctx context.Context, reason session.Reason, status int)
}

// BearerAuth attaches the session credential to every outgoing request.
// Requests go out unauthenticated when no credential is held.
func BearerAuth(tokens TokenSource) RequestInterceptor {
	return func(ctx context.Context, req *http.Request) error {
		if token := tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RequestID tags every request with a fresh id unless one is already set.
func RequestID() RequestInterceptor {
	return func(_ context.Context, req *http.Request) error {
		if req.Header.Get(HeaderRequestID) == "" {
			req.Header.Set(HeaderRequestID, uuid.NewString())
		}
		return nil
	}
}

// InvalidateOnUnauthorized ends the session when the backend answers 401,
// then hands the original error back so the caller's handling still runs.
// Every other result passes through unchanged.
func InvalidateOnUnauthorized(inv Invalidator) ResponseInterceptor {
	return func(ctx context.Context, req *http.Request, resp Response, err error) (Response, error) {
		if err == nil || StatusOf(err) != http.StatusUnauthorized {
			return resp, err
		}
		path := ""
		if req != nil {
			path = req.URL.Path
		}
		logger.Warn(ctx, "authorization failed, invalidating session", zap.String("path", path))
		inv.Invalidate(ctx, session.ReasonUnauthorized, http.StatusUnauthorized)
		return resp, err
	}
}
