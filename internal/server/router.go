// Package server assembles the HTTP surface: routes, middleware chain and
// handler wiring.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Gustavohps10/timelapse-sub001/internal/connector"
	"github.com/Gustavohps10/timelapse-sub001/internal/scope"
	"github.com/Gustavohps10/timelapse-sub001/internal/server/handlers"
	"github.com/Gustavohps10/timelapse-sub001/internal/server/jwt"
	"github.com/Gustavohps10/timelapse-sub001/internal/server/middleware"
	"github.com/Gustavohps10/timelapse-sub001/internal/workspaces"
)

// Config carries everything the router needs to build the handler tree.
type Config struct {
	Version    string
	JWT        jwt.Config
	RateLimit  int
	RateWindow time.Duration
	Workspaces *workspaces.Service
	Resolver   *scope.Resolver
	Registry   *connector.Registry
	Logger     *slog.Logger
}

// Router is the assembled HTTP handler plus the resources it owns.
type Router struct {
	handler http.Handler
	limiter *middleware.RateLimiter
}

// New wires handlers, routes and the middleware chain. Sync endpoints sit
// behind session auth; the workspace lifecycle endpoints do not, since
// connect is what issues the session token in the first place.
func New(cfg Config) *Router {
	healthHandler := handlers.NewHealthHandler(cfg.Version, cfg.Logger)
	connectorHandler := handlers.NewConnectorHandler(cfg.Registry, cfg.Logger)
	workspaceHandler := handlers.NewWorkspaceHandler(cfg.Workspaces, cfg.JWT, cfg.Logger)
	syncHandler := handlers.NewSyncHandler(cfg.Resolver, cfg.Logger)

	sessionAuth := middleware.SessionAuthMiddleware(cfg.Logger, cfg.JWT)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /api/v1/connectors", connectorHandler.List)

	mux.HandleFunc("POST /api/v1/workspaces", workspaceHandler.Create)
	mux.HandleFunc("GET /api/v1/workspaces", workspaceHandler.List)
	mux.HandleFunc("GET /api/v1/workspaces/{id}", workspaceHandler.Get)
	mux.HandleFunc("POST /api/v1/workspaces/{id}/link", workspaceHandler.Link)
	mux.HandleFunc("POST /api/v1/workspaces/{id}/connect", workspaceHandler.Connect)
	mux.HandleFunc("POST /api/v1/workspaces/{id}/disconnect", workspaceHandler.Disconnect)
	mux.HandleFunc("POST /api/v1/workspaces/{id}/unlink", workspaceHandler.Unlink)

	mux.Handle("POST /api/v1/workspaces/{id}/sync/pull", sessionAuth(http.HandlerFunc(syncHandler.Pull)))
	mux.Handle("POST /api/v1/workspaces/{id}/sync/push", sessionAuth(http.HandlerFunc(syncHandler.Push)))

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, cfg.Logger)

	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	return &Router{handler: handler, limiter: limiter}
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

// Close releases router-owned resources.
func (rt *Router) Close() {
	rt.limiter.Close()
}
