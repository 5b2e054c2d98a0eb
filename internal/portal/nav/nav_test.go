package nav

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staffdeck/staffdeck/pkg/hrsdk"
)

func TestTitleFor(t *testing.T) {
	t.Run("longest matching prefix wins", func(t *testing.T) {
		require.Equal(t, "Attendance Logs", TitleFor("/attendance/logs"))
		require.Equal(t, "Attendance", TitleFor("/attendance"))
		require.Equal(t, "Attendance", TitleFor("/attendance/1/edit"))
		require.Equal(t, "Subscription Plans", TitleFor("/super-admin/plans"))
		require.Equal(t, "Organizations", TitleFor("/super-admin"))
	})

	t.Run("prefix matches only on segment boundaries", func(t *testing.T) {
		require.Equal(t, DefaultTitle, TitleFor("/attendance-report"))
		require.Equal(t, DefaultTitle, TitleFor("/leaves"))
	})

	t.Run("unmatched paths use the default title", func(t *testing.T) {
		require.Equal(t, DefaultTitle, TitleFor("/"))
		require.Equal(t, DefaultTitle, TitleFor("/nowhere"))
	})
}

func TestMenuFor(t *testing.T) {
	t.Run("nil user has no menu", func(t *testing.T) {
		require.Nil(t, MenuFor(nil))
	})

	t.Run("admin sees the admin and shared entries only", func(t *testing.T) {
		menu := MenuFor(&hrsdk.User{ID: 1, RoleType: "admin"})
		require.NotEmpty(t, menu)

		paths := make(map[string]bool, len(menu))
		for _, rt := range menu {
			paths[rt.Path] = true
		}

		require.True(t, paths["/admin/dashboard"])
		require.True(t, paths["/employees"])
		require.True(t, paths["/profile"])
		require.False(t, paths["/employee/dashboard"])
		require.False(t, paths["/super-admin"])
	})

	t.Run("employee sees my-space and shared entries only", func(t *testing.T) {
		menu := MenuFor(&hrsdk.User{ID: 2, RoleType: "employee"})

		paths := make(map[string]bool, len(menu))
		for _, rt := range menu {
			paths[rt.Path] = true
		}

		require.True(t, paths["/employee/dashboard"])
		require.True(t, paths["/employee/payslips"])
		require.True(t, paths["/notifications"])
		require.False(t, paths["/employees"])
		require.False(t, paths["/payroll"])
	})

	t.Run("unknown role still gets the shared entries", func(t *testing.T) {
		menu := MenuFor(&hrsdk.User{ID: 3, RoleType: "mystery"})

		var paths []string
		for _, rt := range menu {
			paths = append(paths, rt.Path)
		}
		require.ElementsMatch(t, []string{"/notifications", "/profile"}, paths)
	})

	t.Run("entries keep table order", func(t *testing.T) {
		menu := MenuFor(&hrsdk.User{ID: 4, RoleType: "super_admin"})
		require.NotEmpty(t, menu)
		require.Equal(t, "/super-admin/plans", menu[len(menu)-4].Path)
		require.Equal(t, "/super-admin", menu[len(menu)-3].Path)
		require.Equal(t, "/notifications", menu[len(menu)-2].Path)
		require.Equal(t, "/profile", menu[len(menu)-1].Path)
	})
}
