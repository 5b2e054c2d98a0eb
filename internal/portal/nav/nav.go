// Package nav holds the portal route table and derives the role-filtered
// menu and page titles from it.
package nav

import (
	"strings"

	"github.com/staffdeck/staffdeck/pkg/guard"
	"github.com/staffdeck/staffdeck/pkg/hrsdk"
)

// Route is one entry of the portal route table.
type Route struct {
	Path    string
	Title   string
	Roles   []string // guard tags; nil means any authenticated user
	Section string   // menu grouping
	InMenu  bool
}

// DefaultTitle is used when no route matches.
const DefaultTitle = "Staffdeck"

// table is the portal's static route table. Guards and menus both read it so
// access rules live in exactly one place.
var table = []Route{
	// Admin
	{Path: "/admin/dashboard", Title: "Dashboard", Roles: []string{guard.TagAdmin}, Section: "Workspace", InMenu: true},
	{Path: "/employees", Title: "Employees", Roles: []string{guard.TagAdmin}, Section: "Workspace", InMenu: true},
	{Path: "/attendance/logs", Title: "Attendance Logs", Roles: []string{guard.TagAdmin}, Section: "Workspace"},
	{Path: "/attendance", Title: "Attendance", Roles: []string{guard.TagAdmin}, Section: "Workspace", InMenu: true},
	{Path: "/leave", Title: "Leave Management", Roles: []string{guard.TagAdmin}, Section: "Workspace", InMenu: true},
	{Path: "/payroll", Title: "Payroll", Roles: []string{guard.TagAdmin}, Section: "Workspace", InMenu: true},
	{Path: "/onboarding", Title: "Onboarding", Roles: []string{guard.TagAdmin}, Section: "People", InMenu: true},
	{Path: "/offboarding", Title: "Resignations", Roles: []string{guard.TagAdmin}, Section: "People", InMenu: true},
	{Path: "/assets", Title: "Assets", Roles: []string{guard.TagAdmin}, Section: "Operations", InMenu: true},
	{Path: "/subscriptions", Title: "Subscription", Roles: []string{guard.TagAdmin}, Section: "Operations", InMenu: true},
	{Path: "/reports", Title: "Reports", Roles: []string{guard.TagAdmin}, Section: "Operations", InMenu: true},
	{Path: "/settings", Title: "Settings", Roles: []string{guard.TagAdmin}, Section: "Operations", InMenu: true},

	// Employee
	{Path: "/employee/dashboard", Title: "My Dashboard", Roles: []string{guard.TagEmployee}, Section: "My Space", InMenu: true},
	{Path: "/employee/attendance", Title: "My Attendance", Roles: []string{guard.TagEmployee}, Section: "My Space", InMenu: true},
	{Path: "/employee/leave", Title: "My Leave", Roles: []string{guard.TagEmployee}, Section: "My Space", InMenu: true},
	{Path: "/employee/payslips", Title: "My Payslips", Roles: []string{guard.TagEmployee}, Section: "My Space", InMenu: true},
	{Path: "/employee/documents", Title: "My Documents", Roles: []string{guard.TagEmployee}, Section: "My Space", InMenu: true},

	// Super admin
	{Path: "/super-admin/plans", Title: "Subscription Plans", Roles: []string{guard.TagSuperAdmin}, Section: "Platform", InMenu: true},
	{Path: "/super-admin", Title: "Organizations", Roles: []string{guard.TagSuperAdmin}, Section: "Platform", InMenu: true},

	// Shared
	{Path: "/notifications", Title: "Notifications", Roles: []string{guard.TagAll}, Section: "Account", InMenu: true},
	{Path: "/profile", Title: "My Profile", Roles: []string{guard.TagAll}, Section: "Account", InMenu: true},
}

// Table returns the route table.
func Table() []Route {
	return table
}

// TitleFor resolves the current page title from the route table by longest
// matching prefix.
func TitleFor(path string) string {
	best := ""
	title := DefaultTitle
	for _, rt := range table {
		if matchesPrefix(path, rt.Path) && len(rt.Path) > len(best) {
			best = rt.Path
			title = rt.Title
		}
	}
	return title
}

func matchesPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	// "/attendance" must not claim "/attendance-x"; segment boundary only.
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// MenuFor returns the menu entries visible to the given user, in table
// order. The same guard decision that protects the route decides its menu
// visibility.
func MenuFor(u *hrsdk.User) []Route {
	if u == nil {
		return nil
	}

	var visible []Route
	for _, rt := range table {
		if !rt.InMenu {
			continue
		}
		d := guard.Decide(guard.State{User: u}, rt.Roles)
		if d.Outcome == guard.Allow {
			visible = append(visible, rt)
		}
	}
	return visible
}
