package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/models"
	u "github.com/riteshkumar/loan-ledger/internal/utils"
)

type contextKey string

const adminIDKey contextKey = "admin_id"

// TokenParser validates bearer tokens.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// LoggingMiddleware logs incoming HTTP requests
func LoggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// CORS wraps the whole router so preflight requests are answered before
// method matching.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// AdminAuthMiddleware requires a valid ADMIN bearer token and stores the
// admin id in the request context.
func AdminAuthMiddleware(tokens TokenParser, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				u.WriteError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				u.WriteError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Warn("rejected bearer token", "path", r.URL.Path, "error", err.Error())
				u.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != models.RoleAdmin {
				u.WriteError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromContext returns the authenticated admin id.
func AdminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDKey).(string)
	return id, ok && id != ""
}
