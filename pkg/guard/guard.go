// Package guard decides, per navigation attempt, whether a route's content
// may render or where to redirect instead. Decisions are derived purely from
// the auth state and the route's allowed roles, and are re-evaluated fresh on
// every request.
package guard

import (
	"github.com/staffdeck/staffdeck/pkg/hrsdk"
)

// Allowed-role tags a route may declare. "admin" and "employee" match the
// capability flags, not exact role names; the super-admin tag matches
// exactly.
const (
	TagAll        = "all"
	TagAdmin      = "admin"
	TagEmployee   = "employee"
	TagSuperAdmin = "super_admin"
)

// Fixed navigation targets. The role-home fallback is a non-configurable
// three-way map, not a generic access-denied page.
const (
	LoginPath      = "/login"
	SuperAdminHome = "/super-admin"
	AdminHome      = "/admin/dashboard"
	EmployeeHome   = "/employee/dashboard"
)

// Outcome is the result of evaluating a guard.
type Outcome int

const (
	// Checking: session bootstrap is still pending; show a neutral waiting
	// state, make no redirect decision yet.
	Checking Outcome = iota
	// Allow: render the route's content.
	Allow
	// RedirectToLogin: unauthenticated; preserve the attempted path.
	RedirectToLogin
	// RedirectToRoleHome: authenticated but not allowed here; send to the
	// role-appropriate home.
	RedirectToRoleHome
)

// Decision is a guard's terminal (or pending) outcome.
type Decision struct {
	Outcome Outcome
	// Target is the redirect destination for RedirectToRoleHome.
	Target string
}

// State is the slice of auth state a guard consumes.
type State struct {
	Loading bool
	User    *hrsdk.User
}

// Decide evaluates the guard state machine for one navigation attempt.
// allowed==nil means any authenticated user may enter.
func Decide(s State, allowed []string) Decision {
	if s.Loading {
		return Decision{Outcome: Checking}
	}
	if s.User == nil {
		return Decision{Outcome: RedirectToLogin}
	}
	if len(allowed) == 0 {
		return Decision{Outcome: Allow}
	}

	role := hrsdk.NormalizeRole(s.User)
	if hasAccess(role, allowed) {
		return Decision{Outcome: Allow}
	}

	return Decision{Outcome: RedirectToRoleHome, Target: RoleHome(role)}
}

func hasAccess(role hrsdk.Role, allowed []string) bool {
	for _, tag := range allowed {
		switch tag {
		case TagAll:
			return true
		case TagAdmin:
			if role.IsAdmin() {
				return true
			}
		case TagEmployee:
			if role.IsEmployee() {
				return true
			}
		case TagSuperAdmin:
			if role == hrsdk.RoleSuperAdmin {
				return true
			}
		}
	}
	return false
}

// RoleHome maps a normalized role to its home route: super admin, then
// admin-like, then everyone else to the employee home.
func RoleHome(role hrsdk.Role) string {
	switch {
	case role == hrsdk.RoleSuperAdmin:
		return SuperAdminHome
	case role.IsAdmin():
		return AdminHome
	default:
		return EmployeeHome
	}
}
