package hrsdk

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// API paths relative to the versioned base URL.
const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	mePath       = "/auth/me"
	refreshPath  = "/auth/refresh-token"
)

// requestTimeout bounds every outgoing request.
const requestTimeout = 10 * time.Second

// Client is the single point of egress for all API calls. It injects the
// bearer token from the session store on every request and runs one
// refresh-and-retry cycle when a request comes back 401.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      SessionStore
	Logger     *slog.Logger

	// OnSessionExpired is invoked after the session store has been cleared
	// following an irrecoverable refresh failure. The portal hooks its
	// redirect-to-login behaviour here; the client itself never navigates.
	OnSessionExpired func()
}

// NewClient creates a client for the HR backend rooted at baseURL
// (e.g. "http://localhost:5000/api/v1").
func NewClient(baseURL string, store SessionStore) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		Store:  store,
		Logger: slog.Default(),
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// AccessTokenExpiry reports the exp claim of the stored access token without
// verifying the signature. Returns the zero time when no token is stored or
// the token is not a parsable JWT. Refresh decisions do not depend on this;
// they follow the 401-driven path.
func (c *Client) AccessTokenExpiry() time.Time {
	sess, err := c.Store.Load()
	if err != nil || sess == nil || sess.AccessToken == "" {
		return time.Time{}
	}
	return tokenExpiry(sess.AccessToken)
}

func tokenExpiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
