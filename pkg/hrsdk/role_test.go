package hrsdk

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	t.Run("three representations map to the same tag", func(t *testing.T) {
		asString := &User{Role: json.RawMessage(`"super_admin"`)}
		asObject := &User{Role: json.RawMessage(`{"role_name": "Super Admin"}`)}
		asType := &User{RoleType: "super_admin"}

		require.Equal(t, RoleSuperAdmin, NormalizeRole(asString))
		require.Equal(t, RoleSuperAdmin, NormalizeRole(asObject))
		require.Equal(t, RoleSuperAdmin, NormalizeRole(asType))
	})

	t.Run("role_type wins over role", func(t *testing.T) {
		u := &User{
			RoleType: "employee",
			Role:     json.RawMessage(`"admin"`),
		}
		require.Equal(t, RoleEmployee, NormalizeRole(u))
	})

	t.Run("case and separator variants", func(t *testing.T) {
		for _, raw := range []string{"ADMIN", "Admin", " admin ", "team lead", "Team_Lead", "TEAM  LEAD"} {
			u := &User{RoleType: raw}
			got := NormalizeRole(u)
			require.NotEqual(t, RoleUnknown, got, "raw %q", raw)
		}

		require.Equal(t, RoleTeamLead, NormalizeRole(&User{RoleType: "Team Lead"}))
	})

	t.Run("nil and unrecognized fall back to unknown", func(t *testing.T) {
		require.Equal(t, RoleUnknown, NormalizeRole(nil))
		require.Equal(t, RoleUnknown, NormalizeRole(&User{}))
		require.Equal(t, RoleUnknown, NormalizeRole(&User{RoleType: "intern"}))
		require.Equal(t, RoleUnknown, NormalizeRole(&User{Role: json.RawMessage(`{"id": 3}`)}))
	})
}

func TestRoleCapabilities(t *testing.T) {
	t.Run("admin-like roles", func(t *testing.T) {
		require.True(t, RoleAdmin.IsAdmin())
		require.True(t, RoleHR.IsAdmin())
		require.True(t, RoleSuperAdmin.IsAdmin())
		require.False(t, RoleEmployee.IsAdmin())
		require.False(t, RoleManager.IsAdmin())
	})

	t.Run("employee-like roles", func(t *testing.T) {
		require.True(t, RoleEmployee.IsEmployee())
		require.True(t, RoleTeamLead.IsEmployee())
		require.False(t, RoleAdmin.IsEmployee())
		require.False(t, RoleUnknown.IsEmployee())
	})
}
