// Package http serves the portal shell: the login entry point, the guarded
// page routes from the navigation table, and the session status endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/staffdeck/staffdeck/internal/portal/nav"
	"github.com/staffdeck/staffdeck/pkg/guard"
	"github.com/staffdeck/staffdeck/pkg/hrsdk"
	"github.com/staffdeck/staffdeck/pkg/httpx"
	"github.com/staffdeck/staffdeck/pkg/slogx"
)

// Router holds shared dependencies for the portal handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	auth   *hrsdk.AuthState
	client *hrsdk.Client
	logger *slog.Logger

	// NotificationCount feeds the unread badge in the shell. Optional.
	NotificationCount func() int64
}

func NewRouter(auth *hrsdk.AuthState, client *hrsdk.Client, logger *slog.Logger) *Router {
	r := &Router{
		Mux:    http.NewServeMux(),
		auth:   auth,
		client: client,
		logger: logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.RecoverMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerShell()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.HandleFunc("GET /login", r.handleLoginPage)

	// Login attempts are limited by IP + submitted email.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(r.handleLoginSubmit),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	r.Mux.HandleFunc("POST /logout", r.handleLogout)
	r.Mux.HandleFunc("GET /session", r.handleSession)
}

func (r *Router) registerShell() {
	r.Mux.HandleFunc("/{$}", r.handleRoot)

	for _, rt := range nav.Table() {
		route := rt
		r.Mux.Handle("GET "+route.Path,
			httpx.Chain(r.shellHandler(route),
				guard.RequireRoles(r.auth, route.Roles...),
			),
		)
	}
}
