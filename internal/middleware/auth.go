// Package middleware provides HTTP middleware for the sales API
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/conecteai/sales_layer/internal/app/auth"
	"github.com/conecteai/sales_layer/internal/errors"
	"github.com/conecteai/sales_layer/internal/httputil"
	"github.com/conecteai/sales_layer/pkg/logger"
)

const (
	msgTokenMissing = "Token de acesso ausente."
	msgTokenInvalid = "Token de acesso inválido."
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AuthMiddleware provides JWT authentication
type AuthMiddleware struct {
	validator TokenValidator
	logger    *logger.Logger
	skipPaths map[string]bool
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(validator TokenValidator, log *logger.Logger, skipPaths []string) *AuthMiddleware {
	skip := make(map[string]bool)
	for _, path := range skipPaths {
		skip[path] = true
	}

	return &AuthMiddleware{
		validator: validator,
		logger:    log,
		skipPaths: skip,
	}
}

// Handler returns the middleware handler
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipPaths[r.URL.Path] || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.respondError(w, r, msgTokenMissing, errors.Unauthorized("missing Authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.respondError(w, r, msgTokenInvalid, errors.Unauthorized("invalid Authorization header format"))
			return
		}

		claims, err := m.validator.Validate(parts[1])
		if err != nil {
			m.respondError(w, r, msgTokenInvalid, err)
			return
		}

		ctx := logger.WithUserID(r.Context(), claims.UserID)
		if rw, ok := w.(*responseWriter); ok {
			rw.userID = claims.UserID
		}

		m.logger.ForContext(ctx).WithField("email", claims.Email).Debug("authentication successful")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	httputil.Message(w, http.StatusUnauthorized, message)

	m.logger.ForContext(r.Context()).WithError(err).WithField("path", r.URL.Path).Warn("authentication failed")
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	return logger.UserID(ctx)
}

// RequireUserID middleware ensures user ID is present in context
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			httputil.Message(w, http.StatusUnauthorized, msgTokenMissing)
			return
		}
		next.ServeHTTP(w, r)
	})
}
