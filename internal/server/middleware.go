package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/maruel/portfolio/internal/auth"
	apierrors "github.com/maruel/portfolio/internal/errors"
	"github.com/maruel/portfolio/internal/server/ratelimit"
)

// RequireAdmin validates the Bearer token against gate and adds the session
// to the context.
func RequireAdmin(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(ctx, w, apierrors.Unauthorized())
				return
			}
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeError(ctx, w, apierrors.Unauthorized().WithDetail("reason", "invalid authorization header"))
				return
			}
			s, err := gate.Verify(token)
			if err != nil {
				writeError(ctx, w, apierrors.Unauthorized().Wrap(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(ctx, token, s)))
		})
	}
}

// MaxBodySize caps request bodies at limit bytes. 0 disables the cap.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(r.Context(), w, apierrors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit rejects requests over the per-client limits of cfg.
func RateLimit(cfg *ratelimit.Config) func(http.Handler) http.Handler {
	return ratelimit.Middleware(cfg, func(w http.ResponseWriter, r *http.Request, res ratelimit.Result) {
		slog.WarnContext(r.Context(), "Rate limited", "remote", ratelimit.ClientIP(r), "path", r.URL.Path)
		writeError(r.Context(), w, apierrors.RateLimited(int(res.RetryAfter.Seconds())))
	})
}

// Recover turns a handler panic into a 500 response.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.ErrorContext(r.Context(), "Handler panic", "panic", v, "stack", string(debug.Stack()))
				writeError(r.Context(), w, apierrors.Internal("Internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
