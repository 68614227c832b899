package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ideaforge/auth-server/internal/apierrors"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
)

// TokenService verifies access tokens for the authenticate middleware.
type TokenService interface {
	Claims(ctx context.Context, accessToken string) (model.AccessClaims, error)
}

// Authenticate validates access tokens and injects the verified claims into
// the request context. The Authorization header wins over the access cookie
// so API clients can override a stale browser session.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handler wraps next with access-token authentication.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := accessTokenFromRequest(r)
		if tokenString == "" {
			writeAuthError(w, apierrors.NewErrMissingAuthorizationToken())
			return
		}

		claims, err := m.tokenService.Claims(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected", "error", err)
			writeAuthError(w, apierrors.NewErrInvalidAuthorizationToken())
			return
		}

		ctx := m.contextManager.SetClaimsToContext(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessTokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if rest, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return rest
		}
		return ""
	}
	if c, err := r.Cookie("access_token"); err == nil {
		return c.Value
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, apiErr *apierrors.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{Code: apiErr.Code, Message: apiErr.Message})
}
