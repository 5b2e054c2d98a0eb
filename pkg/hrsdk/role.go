package hrsdk

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Role is the canonical normalized role tag. Every component consumes this
// tag instead of re-deriving role strings from the raw payload.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleTeamLead   Role = "team_lead"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
	RoleUnknown    Role = "unknown"
)

var knownRoles = map[Role]bool{
	RoleSuperAdmin: true,
	RoleAdmin:      true,
	RoleHR:         true,
	RoleTeamLead:   true,
	RoleManager:    true,
	RoleEmployee:   true,
}

// NormalizeRole maps the user's heterogeneous role representation to a Role
// tag. Resolution order: role_type if present, else role.role_name if the
// role is an object, else the role itself if it is a plain string, else
// unknown. Matching is case-insensitive and underscore/space agnostic.
// Deterministic and side-effect-free: guards re-evaluate it on every request.
func NormalizeRole(u *User) Role {
	if u == nil {
		return RoleUnknown
	}

	raw := u.RoleType
	if raw == "" && len(u.Role) > 0 {
		v := gjson.ParseBytes(u.Role)
		switch {
		case v.Get("role_name").Exists():
			raw = v.Get("role_name").String()
		case v.Type == gjson.String:
			raw = v.String()
		}
	}

	return normalizeTag(raw)
}

// normalizeTag canonicalizes a raw role string: lowercase, with any run of
// underscores or whitespace collapsed to a single underscore. "Super Admin",
// "SUPER_ADMIN" and "super admin" all map to super_admin.
func normalizeTag(raw string) Role {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return RoleUnknown
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '_' || r == ' ' || r == '\t'
	})
	tag := Role(strings.Join(fields, "_"))

	if !knownRoles[tag] {
		return RoleUnknown
	}
	return tag
}

// IsAdmin reports whether the role carries the admin-like capability.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleHR || r == RoleSuperAdmin
}

// IsEmployee reports whether the role carries the employee-like capability.
func (r Role) IsEmployee() bool {
	return r == RoleEmployee || r == RoleTeamLead
}

func (r Role) String() string { return string(r) }
