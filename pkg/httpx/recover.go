package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/staffdeck/staffdeck/pkg/slogx"
)

const recoveryPage = `<!doctype html>
<html>
<head><title>Something went wrong</title></head>
<body>
<h1>Something went wrong</h1>
<p>The page could not be rendered. Your session has not been lost.</p>
<p><a href="/">Return to the portal</a></p>
</body>
</html>`

// RecoverMiddleware is the top-level rendering boundary. A panic anywhere in
// the handler tree replaces the whole response with a recovery screen whose
// single action navigates back to the application root.
func RecoverMiddleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log := slogx.FromContext(r.Context())
					log.Error("panic while handling request",
						"panic", rec,
						"stack", string(debug.Stack()),
					)

					NoCache(w)
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(recoveryPage))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
