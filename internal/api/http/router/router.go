// Package router wires auth handlers and middleware into the HTTP mux.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ideaforge/auth-server/internal/api/http/handler"
	"github.com/ideaforge/auth-server/internal/api/http/middleware"
	"github.com/ideaforge/auth-server/internal/logger"
	"github.com/ideaforge/auth-server/internal/model"
	"github.com/ideaforge/auth-server/internal/service"
)

// Router builds the HTTP routing table for the auth API.
type Router struct {
	authService    *service.Auth
	tokenService   *service.TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	tokenService *service.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handler assembles the mux. Signup, login, magic-link and refresh routes
// are public; identity and session-management routes require a valid access
// token.
func (rt *Router) Handler() http.Handler {
	authHandler := handler.NewAuth(rt.authService, rt.tokenService, rt.contextManager, rt.logger)
	authenticate := middleware.NewAuthenticate(rt.tokenService, rt.contextManager, rt.logger)
	logging := middleware.NewLogging(rt.logger)

	r := chi.NewRouter()
	r.Use(logging.Handler)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignupPassword)
		r.Post("/signup/magic", authHandler.SignupMagic)
		r.Post("/magic/send", authHandler.MagicSend)
		r.Get("/magic/verify", authHandler.MagicVerify)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticate.Handler)
			r.Get("/me", authHandler.Me)
			r.Get("/sessions", authHandler.ListSessions)
			r.Delete("/sessions/{id}", authHandler.RevokeSession)
			r.Post("/sessions/revoke-all", authHandler.RevokeAllSessions)
		})
	})

	return r
}
