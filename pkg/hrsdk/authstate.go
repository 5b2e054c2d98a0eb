package hrsdk

import (
	"context"
	"log/slog"
	"sync"
)

// AuthState is the process-wide session state: the current user, a loading
// flag covering session bootstrap, and the login/register/logout operations.
// It is created once at application start and injected into everything that
// needs it; Reset exists so tests can reuse one instance.
//
// AuthState and the Client are the only writers of the session store:
// AuthState owns the session lifecycle, the Client owns token refresh.
type AuthState struct {
	mu      sync.RWMutex
	client  *Client
	store   SessionStore
	logger  *slog.Logger
	user    *User
	loading bool
}

// NewAuthState creates the auth state bound to a client. The state starts in
// loading=true until Bootstrap settles.
func NewAuthState(client *Client, logger *slog.Logger) *AuthState {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthState{
		client:  client,
		store:   client.Store,
		logger:  logger,
		loading: true,
	}
}

// Bootstrap runs once per application start. It hydrates the user
// synchronously from the session store, then re-validates the session
// against the "who am I" endpoint when an access token is present. The
// loading flag flips to false only after the verification settles, so guards
// never observe a false "unauthenticated" while verification is pending.
func (a *AuthState) Bootstrap(ctx context.Context) {
	defer a.setLoading(false)

	sess, err := a.store.Load()
	if err != nil || sess == nil {
		return
	}

	a.setUser(sess.User)

	if sess.AccessToken == "" {
		return
	}

	user, err := a.client.GetMe(ctx)
	if err != nil {
		// Deliberately permissive: a failed verification does not force a
		// logout. The hydrated user stays authoritative so a transient
		// network blip doesn't log everyone out.
		a.logger.Warn("session verification failed, keeping cached user", "err", err)
		return
	}

	a.setUser(user)
	a.persistUser(user)
}

// Login authenticates with the backend. An explicit success:false envelope
// is passed through as a non-error AuthResult for caller-level handling. A
// structurally valid success sets the in-memory user (merged with the
// organization) and persists the user snapshot; tokens are persisted only
// when the payload carries them. Unlike Register, the login payload is not
// required to include tokens.
func (a *AuthState) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	env, err := a.client.PostLogin(ctx, creds)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return &AuthResult{Success: false, Message: env.Message}, nil
	}

	payload, err := decodeAuthPayload(env, "login")
	if err != nil {
		return nil, err
	}
	user := mergeOrganization(payload.User, payload.Organization)

	sess := a.loadOrEmptySession()
	if payload.Tokens != nil {
		sess.AccessToken = payload.Tokens.AccessToken
		sess.RefreshToken = payload.Tokens.RefreshToken
	}
	sess.User = user
	if err := a.store.Save(sess); err != nil {
		return nil, err
	}

	a.setUser(user)
	return &AuthResult{Success: true, Message: env.Message, User: user}, nil
}

// Register creates an organization and its first user. The same contract as
// Login, except a successful payload must also carry both tokens; a missing
// token is a contract violation. On success both tokens and the merged user
// snapshot are persisted.
func (a *AuthState) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	env, err := a.client.PostRegister(ctx, req)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return &AuthResult{Success: false, Message: env.Message}, nil
	}

	payload, err := decodeAuthPayload(env, "register")
	if err != nil {
		return nil, err
	}
	if payload.Tokens == nil || payload.Tokens.AccessToken == "" || payload.Tokens.RefreshToken == "" {
		return nil, &ContractError{Op: "register", Detail: "success payload without token pair"}
	}
	user := mergeOrganization(payload.User, payload.Organization)

	sess := Session{
		AccessToken:  payload.Tokens.AccessToken,
		RefreshToken: payload.Tokens.RefreshToken,
		User:         user,
	}
	if err := a.store.Save(sess); err != nil {
		return nil, err
	}

	a.setUser(user)
	return &AuthResult{Success: true, Message: env.Message, User: user}, nil
}

// Logout clears the session store and the in-memory user. It does not
// navigate; callers are responsible for redirecting.
func (a *AuthState) Logout() error {
	a.setUser(nil)
	return a.store.Clear()
}

// Expire drops the in-memory user after the client has already cleared an
// irrecoverable session. Wire it to Client.OnSessionExpired so the next
// guard evaluation redirects to login instead of serving a dead session.
func (a *AuthState) Expire() {
	a.setUser(nil)
}

// Reset returns the state to its initial condition (loading, no user, empty
// store). Test lifecycle support.
func (a *AuthState) Reset() error {
	a.mu.Lock()
	a.user = nil
	a.loading = true
	a.mu.Unlock()
	return a.store.Clear()
}

// User returns the current user, or nil when unauthenticated.
func (a *AuthState) User() *User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// Loading reports whether session bootstrap is still pending.
func (a *AuthState) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// IsAuthenticated reports whether a user is present.
func (a *AuthState) IsAuthenticated() bool {
	return a.User() != nil
}

func (a *AuthState) setUser(u *User) {
	a.mu.Lock()
	a.user = u
	a.mu.Unlock()
}

func (a *AuthState) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

// persistUser overwrites the stored user snapshot, keeping tokens as-is.
func (a *AuthState) persistUser(u *User) {
	sess := a.loadOrEmptySession()
	sess.User = u
	if err := a.store.Save(sess); err != nil {
		a.logger.Warn("failed to persist user snapshot", "err", err)
	}
}

func (a *AuthState) loadOrEmptySession() Session {
	sess, err := a.store.Load()
	if err != nil || sess == nil {
		return Session{}
	}
	return *sess
}
