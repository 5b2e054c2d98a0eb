package hrsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/staffdeck/staffdeck/pkg/idx"
)

// doJSON performs an authenticated JSON request and decodes the response
// envelope. Non-2xx responses come back as *APIError, transport failures as
// *NetworkError, unrecoverable 401s as *SessionExpiredError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	status, _, respBody, err := c.call(ctx, method, path, payload, "application/json")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, normalizeErrorResponse(status, respBody)
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, &ContractError{Op: method + " " + path, Detail: "response body is not a valid envelope"}
	}
	return &env, nil
}

// call performs an authenticated request, running at most one
// refresh-and-retry cycle when the response is 401. The login endpoint is
// exempt: a 401 there is a credentials failure, not an expired session. The
// single-retry structure is per original request; concurrent 401s each run
// their own refresh independently (no single-flight deduplication).
func (c *Client) call(
	ctx context.Context,
	method, path string,
	body []byte,
	contentType string,
) (int, http.Header, []byte, error) {
	status, header, respBody, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return 0, nil, nil, err
	}

	if status == http.StatusUnauthorized && path != loginPath {
		if err := c.refreshAccessToken(ctx); err != nil {
			return 0, nil, nil, err
		}

		status, header, respBody, err = c.send(ctx, method, path, body, contentType)
		if err != nil {
			return 0, nil, nil, err
		}
	}

	return status, header, respBody, nil
}

// send performs exactly one HTTP round trip. The body is rebuilt from the
// byte slice each time so a retry can replay it.
func (c *Client) send(
	ctx context.Context,
	method, path string,
	body []byte,
	contentType string,
) (int, http.Header, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", idx.New().String())

	if sess, err := c.Store.Load(); err == nil && sess != nil && sess.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, &NetworkError{Err: err}
	}

	return resp.StatusCode, resp.Header, respBody, nil
}

// refreshAccessToken runs the refresh flow: read the refresh token from the
// store, exchange it for a new access token and persist it in place. Any
// failure clears the whole session, fires OnSessionExpired and reports
// SessionExpiredError. A missing refresh token short-circuits without
// touching the network.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	sess, err := c.Store.Load()
	if err != nil || sess == nil || sess.RefreshToken == "" {
		c.expireSession()
		return &SessionExpiredError{Reason: "no refresh token available"}
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: sess.RefreshToken})
	if err != nil {
		return fmt.Errorf("failed to encode refresh request: %w", err)
	}

	status, _, respBody, err := c.send(ctx, http.MethodPost, refreshPath, payload, "application/json")
	if err != nil {
		c.expireSession()
		return &SessionExpiredError{Reason: "refresh request failed"}
	}
	if status < 200 || status >= 300 {
		c.expireSession()
		return &SessionExpiredError{Reason: fmt.Sprintf("refresh rejected with status %d", status)}
	}

	var env Envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		c.expireSession()
		return &SessionExpiredError{Reason: "malformed refresh response"}
	}

	var refreshed refreshPayload
	if env.Data != nil {
		_ = json.Unmarshal(env.Data, &refreshed)
	}
	if refreshed.AccessToken == "" {
		c.expireSession()
		return &SessionExpiredError{Reason: "refresh response carried no access token"}
	}

	sess.AccessToken = refreshed.AccessToken
	if err := c.Store.Save(*sess); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	c.Logger.Debug("access token refreshed")
	return nil
}

func (c *Client) expireSession() {
	_ = c.Store.Clear()
	if c.OnSessionExpired != nil {
		c.OnSessionExpired()
	}
}
