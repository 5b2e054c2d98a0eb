package hrsdk

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PostLogin submits credentials to the login endpoint. The request is
// validated client-side before egress. A 401 here is a credentials failure
// and never triggers a refresh cycle.
func (c *Client) PostLogin(ctx context.Context, creds Credentials) (*Envelope, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, loginPath, creds)
}

// PostRegister submits a registration request.
func (c *Client) PostRegister(ctx context.Context, req RegisterRequest) (*Envelope, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid registration request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, registerPath, req)
}

// GetMe fetches the authenticated user from the "who am I" endpoint, merged
// with its organization.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	env, err := c.doJSON(ctx, http.MethodGet, mePath, nil)
	if err != nil {
		return nil, err
	}

	payload, err := decodeAuthPayload(env, "me")
	if err != nil {
		return nil, err
	}
	return mergeOrganization(payload.User, payload.Organization), nil
}

// decodeAuthPayload decodes an envelope's Data into an auth payload and
// enforces the presence of the user record.
func decodeAuthPayload(env *Envelope, op string) (*authPayload, error) {
	var payload authPayload
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, &ContractError{Op: op, Detail: "payload does not decode"}
		}
	}
	if payload.User == nil {
		return nil, &ContractError{Op: op, Detail: "success payload without user data"}
	}
	return &payload, nil
}

// mergeOrganization attaches the top-level organization to the user snapshot
// when the user record itself does not carry one.
func mergeOrganization(u *User, org *Organization) *User {
	if u != nil && u.Organization == nil && org != nil {
		u.Organization = org
	}
	return u
}
