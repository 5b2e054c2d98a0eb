package guard

import (
	"net/http"
	"net/url"

	"github.com/staffdeck/staffdeck/pkg/hrsdk"
	"github.com/staffdeck/staffdeck/pkg/httpx"
)

// AuthReader is the view of the auth state guards need. *hrsdk.AuthState
// satisfies it.
type AuthReader interface {
	User() *hrsdk.User
	Loading() bool
}

const waitingPage = `<!doctype html>
<html>
<head><title>Staffdeck</title><meta http-equiv="refresh" content="1"></head>
<body><p>Checking your session…</p></body>
</html>`

// WriteChecking renders the neutral waiting state used while session
// bootstrap is pending. The page re-polls itself until the state settles.
func WriteChecking(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(waitingPage))
}

// RequireAuth gates a route on authentication only.
func RequireAuth(auth AuthReader) httpx.Middleware {
	return RequireRoles(auth)
}

// RequireRoles gates a route on authentication plus the given allowed-role
// tags. No tags means any authenticated user.
func RequireRoles(auth AuthReader, allowed ...string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(State{Loading: auth.Loading(), User: auth.User()}, allowed)

			switch d.Outcome {
			case Checking:
				// Bootstrap still pending: neutral waiting state, never a
				// redirect.
				WriteChecking(w)
			case RedirectToLogin:
				httpx.NoCache(w)
				http.Redirect(w, r, loginURL(r), http.StatusFound)
			case RedirectToRoleHome:
				httpx.NoCache(w)
				http.Redirect(w, r, d.Target, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// loginURL preserves the attempted location so login can bounce back.
func loginURL(r *http.Request) string {
	from := r.URL.Path
	if r.URL.RawQuery != "" {
		from += "?" + r.URL.RawQuery
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}
