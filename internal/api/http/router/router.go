// Package router wires handlers, guards and middleware onto the HTTP mux.
package router

import (
	"net/http"

	"github.com/vacekto/streamit-auth/internal/api/http/handler"
	"github.com/vacekto/streamit-auth/internal/api/http/middleware"
	"github.com/vacekto/streamit-auth/internal/logger"
)

// Router assembles the service's HTTP surface.
type Router struct {
	auth   *handler.Auth
	health *handler.Health
	guard  *middleware.Guard
	logger *logger.Logger
}

// New creates a new Router instance.
func New(auth *handler.Auth, health *handler.Health, guard *middleware.Guard, logger *logger.Logger) *Router {
	return &Router{
		auth:   auth,
		health: health,
		guard:  guard,
		logger: logger,
	}
}

// Register builds the mux. Routes that rotate or revoke sessions sit behind
// the refresh guard; identity reads sit behind the access guard.
func (r *Router) Register() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", r.auth.Register)
	mux.HandleFunc("POST /auth/login", r.auth.Login)
	mux.Handle("POST /auth/refresh", r.guard.RequireRefresh(http.HandlerFunc(r.auth.Refresh)))
	mux.Handle("POST /auth/logout", r.guard.RequireRefresh(http.HandlerFunc(r.auth.Logout)))
	mux.Handle("POST /auth/logout-all", r.guard.RequireRefresh(http.HandlerFunc(r.auth.LogoutAll)))
	mux.Handle("GET /auth/me", r.guard.RequireAccess(http.HandlerFunc(r.auth.Me)))
	mux.HandleFunc("GET /auth/google", r.auth.GoogleRedirect)
	mux.HandleFunc("GET /auth/google/callback", r.auth.GoogleCallback)
	mux.HandleFunc("GET /healthz", r.health.Handle)

	logging := middleware.NewLogging(r.logger)
	return logging.Handle(mux)
}
