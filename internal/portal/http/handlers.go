package http

import (
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/staffdeck/staffdeck/internal/portal/nav"
	"github.com/staffdeck/staffdeck/pkg/guard"
	"github.com/staffdeck/staffdeck/pkg/hrsdk"
	"github.com/staffdeck/staffdeck/pkg/httpx"
	"github.com/staffdeck/staffdeck/pkg/slogx"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Sign in — Staffdeck</title></head>
<body>
<h1>Sign in</h1>
{{if .Message}}<p class="error">{{.Message}}</p>{{end}}
<form method="post" action="/login">
<input type="hidden" name="from" value="{{.From}}">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>`))

var shellTmpl = template.Must(template.New("shell").Parse(`<!doctype html>
<html>
<head><title>{{.Title}} — Staffdeck</title></head>
<body>
<header>
<span>{{.UserName}}</span>
<span>Notifications: {{.Unread}}</span>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>
</header>
<nav>
{{range .Menu}}<a href="{{.Path}}">{{.Title}}</a>
{{end}}</nav>
<main><h1>{{.Title}}</h1></main>
</body>
</html>`))

// handleRoot sends an authenticated user to their role home. The guard
// states apply here too: checking renders the waiting state, no user means
// the login page.
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	d := guard.Decide(guard.State{Loading: r.auth.Loading(), User: r.auth.User()}, nil)
	switch d.Outcome {
	case guard.Checking:
		guard.WriteChecking(w)
	case guard.Allow:
		role := hrsdk.NormalizeRole(r.auth.User())
		http.Redirect(w, req, guard.RoleHome(role), http.StatusFound)
	default:
		http.Redirect(w, req, guard.LoginPath, http.StatusFound)
	}
}

func (r *Router) handleLoginPage(w http.ResponseWriter, req *http.Request) {
	if r.auth.IsAuthenticated() {
		role := hrsdk.NormalizeRole(r.auth.User())
		http.Redirect(w, req, guard.RoleHome(role), http.StatusFound)
		return
	}

	r.renderLogin(w, http.StatusOK, req.URL.Query().Get("from"), "")
}

func (r *Router) handleLoginSubmit(w http.ResponseWriter, req *http.Request) {
	log := slogx.FromContext(req.Context())

	if err := req.ParseForm(); err != nil {
		r.renderLogin(w, http.StatusBadRequest, "", "Invalid form submission.")
		return
	}

	creds := hrsdk.Credentials{
		Email:    req.PostFormValue("email"),
		Password: req.PostFormValue("password"),
	}
	from := req.PostFormValue("from")

	result, err := r.auth.Login(req.Context(), creds)
	if err != nil {
		// Rejected operations surface as a message on the page, never as an
		// unhandled failure.
		log.Warn("login failed", "err", err)
		r.renderLogin(w, statusForError(err), from, messageForError(err))
		return
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Invalid email or password."
		}
		r.renderLogin(w, http.StatusUnauthorized, from, msg)
		return
	}

	http.Redirect(w, req, postLoginTarget(from, result.User), http.StatusFound)
}

// postLoginTarget bounces back to the originally requested page when it is a
// safe local path, otherwise to the role home.
func postLoginTarget(from string, user *hrsdk.User) string {
	if from != "" && strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		return from
	}
	return guard.RoleHome(hrsdk.NormalizeRole(user))
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if err := r.auth.Logout(); err != nil {
		slogx.FromContext(req.Context()).Warn("logout failed to clear session", "err", err)
	}
	http.Redirect(w, req, guard.LoginPath, http.StatusFound)
}

// handleSession exposes the auth state as JSON for widgets that poll it.
func (r *Router) handleSession(w http.ResponseWriter, req *http.Request) {
	user := r.auth.User()
	role := hrsdk.NormalizeRole(user)

	resp := map[string]any{
		"authenticated": user != nil,
		"loading":       r.auth.Loading(),
		"role":          role.String(),
		"isAdmin":       role.IsAdmin(),
		"isEmployee":    role.IsEmployee(),
	}
	if user != nil {
		resp["user"] = user
	}
	if exp := r.client.AccessTokenExpiry(); !exp.IsZero() {
		resp["accessTokenExpiresAt"] = exp.UTC().Format(time.RFC3339)
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// shellHandler renders the page shell for one route: resolved title, the
// role-filtered menu and the unread badge. Page data itself is fetched by
// the page widgets through the SDK, not here.
func (r *Router) shellHandler(route nav.Route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		user := r.auth.User()

		var unread int64
		if r.NotificationCount != nil {
			unread = r.NotificationCount()
		}

		httpx.NoCache(w)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := shellTmpl.Execute(w, map[string]any{
			"Title":    nav.TitleFor(req.URL.Path),
			"UserName": user.FullName(),
			"Menu":     nav.MenuFor(user),
			"Unread":   unread,
		})
		if err != nil {
			slogx.FromContext(req.Context()).Error("failed to render shell", "err", err)
		}
	})
}

func (r *Router) renderLogin(w http.ResponseWriter, status int, from, message string) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = loginTmpl.Execute(w, map[string]any{
		"From":    from,
		"Message": message,
	})
}

func statusForError(err error) int {
	switch {
	case hrsdk.IsNetworkError(err):
		return http.StatusBadGateway
	case hrsdk.IsSessionExpired(err):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func messageForError(err error) string {
	if hrsdk.IsNetworkError(err) {
		return "Unable to reach the server. Please try again."
	}

	var apiErr *hrsdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return "Sign in failed. Please try again."
}
