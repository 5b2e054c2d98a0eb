/*
Package hrsdk is the client for the Staffdeck HR backend. It owns the three
pieces every portal feature leans on: the session store, the HTTP client with
its token-refresh lifecycle, and the auth state.

# Client vs AuthState

Client is the single point of egress for API calls. It injects the bearer
token from the session store, enforces the request timeout, and normalizes
every failure into one of the typed errors below. AuthState sits on top and
holds the process-wide session state (current user, loading flag) together
with the login/register/logout operations:

	store := hrsdk.NewFileStore(path, hrsdk.WithSealing())
	client := hrsdk.NewClient("http://localhost:5000/api/v1", store)
	auth := hrsdk.NewAuthState(client, logger)

	go auth.Bootstrap(ctx) // hydrate + re-validate the persisted session

	result, err := auth.Login(ctx, hrsdk.Credentials{Email: email, Password: password})

# Token Refresh

When an authenticated request comes back 401, the client runs exactly one
refresh-and-retry cycle: exchange the stored refresh token for a new access
token, persist it in place, replay the original request once. The login
endpoint is exempt (a 401 there means bad credentials). If the refresh itself
fails, or no refresh token is stored, the whole session is cleared,
OnSessionExpired fires and the call fails with SessionExpiredError.

Concurrent requests that 401 at the same time each run their own refresh;
refreshes are deliberately not deduplicated into a single in-flight call.
Deduplicating would change observable behaviour (which refresh token wins),
so the race is documented instead of fixed.

# Roles

User roles arrive in three encodings: a plain string, an object with a
role_name, or a snake_case role_type. NormalizeRole collapses all three into
one closed tag set; guards and menus consume only the tag.

# Errors

  - NetworkError: no HTTP layer reached; never retried
  - SessionExpiredError: refresh failed or absent; store already cleared
  - APIError: any other non-2xx, with optional field-level errors
  - ContractError: a success response with an unexpected shape

# Page Data

Resource provides the generic envelope CRUD contract page modules use,
including multipart upload and blob download. Poller drives the fixed
interval fetches (notifications, attendance log) and stops when its context
is cancelled.
*/
package hrsdk
