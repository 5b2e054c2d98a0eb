package hrsdk

import (
	json "github.com/goccy/go-json"
)

// ============================================================================
// Response Envelope
// ============================================================================

// Envelope is the standard wrapper the HR backend puts around every JSON
// response body.
type Envelope struct {
	// Success indicates whether the operation succeeded
	Success bool `json:"success"`

	// Data carries the operation payload; shape depends on the endpoint
	Data json.RawMessage `json:"data,omitempty"`

	// Message is a human-readable status or error message
	Message string `json:"message,omitempty"`

	// Errors contains field-level validation failures
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ============================================================================
// User and Organization
// ============================================================================

// Organization is the tenant the user belongs to.
type Organization struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain,omitempty"`
}

// User is the denormalized user snapshot the backend returns. The Role field
// is polymorphic: depending on the endpoint it arrives as a plain string
// ("admin"), or as an object carrying a human-readable name
// ({"role_name": "Super Admin"}). RoleType is a third, snake_case encoding.
// Exactly one of the three is authoritative per payload; see NormalizeRole.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	Role     json.RawMessage `json:"role,omitempty"`
	RoleType string          `json:"role_type,omitempty"`

	Organization *Organization `json:"organization,omitempty"`
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ============================================================================
// Session
// ============================================================================

// Session is the bundle of bearer tokens and cached user profile held by the
// client. The access token is replaced in place on refresh; the whole session
// is destroyed on logout or irrecoverable refresh failure.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// ============================================================================
// Auth Requests and Payloads
// ============================================================================

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new organization together with its first user.
type RegisterRequest struct {
	FirstName        string `json:"first_name"        validate:"required"`
	LastName         string `json:"last_name"         validate:"required"`
	Email            string `json:"email"             validate:"required,email"`
	Password         string `json:"password"          validate:"required,min=8"`
	OrganizationName string `json:"organization_name" validate:"required"`
}

// Tokens is the token pair carried inside a successful register payload.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// authPayload is the decoded Data of login/register/me responses.
type authPayload struct {
	User         *User         `json:"user"`
	Organization *Organization `json:"organization,omitempty"`
	Tokens       *Tokens       `json:"tokens,omitempty"`
}

// AuthResult is what Login and Register hand back to callers. When the
// backend answers with an explicit success:false envelope, Result carries it
// through unmodified (Success false, Message set) instead of failing; callers
// decide how to surface it.
type AuthResult struct {
	Success bool
	Message string
	User    *User
}

// refreshRequest is the body sent to the token refresh endpoint.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// refreshPayload is the decoded Data of a refresh response.
type refreshPayload struct {
	AccessToken string `json:"accessToken"`
}
