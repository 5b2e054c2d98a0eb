package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staffdeck/staffdeck/pkg/hrsdk"
)

type fakeAuth struct {
	user    *hrsdk.User
	loading bool
}

func (f *fakeAuth) User() *hrsdk.User { return f.user }
func (f *fakeAuth) Loading() bool     { return f.loading }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("loading renders the waiting state, not a redirect", func(t *testing.T) {
		h := RequireRoles(&fakeAuth{loading: true}, TagAdmin)(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Empty(t, rec.Header().Get("Location"))
	})

	t.Run("unauthenticated redirects to login with the attempted location", func(t *testing.T) {
		h := RequireRoles(&fakeAuth{}, TagAdmin)(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leave?status=pending", nil))

		require.Equal(t, http.StatusFound, rec.Code)

		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, LoginPath, loc.Path)
		require.Equal(t, "/leave?status=pending", loc.Query().Get("from"))
	})

	t.Run("allowed role reaches the handler", func(t *testing.T) {
		h := RequireRoles(&fakeAuth{user: userWithRole("hr")}, TagAdmin)(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role bounces to its own home", func(t *testing.T) {
		h := RequireRoles(&fakeAuth{user: userWithRole("employee")}, TagSuperAdmin)(okHandler())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/super-admin", nil))

		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, EmployeeHome, rec.Header().Get("Location"))
	})
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(&fakeAuth{user: userWithRole("manager")})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
