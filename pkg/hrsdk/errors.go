package hrsdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// ============================================================================
// Error Taxonomy
// ============================================================================

// NetworkError reports that no HTTP layer was reached: DNS failure, refused
// connection, timeout. Never retried automatically.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: unable to reach the server"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// SessionExpiredError reports that the session could not be recovered: the
// refresh token was absent or the refresh call itself failed. By the time the
// caller sees this error the session store has already been cleared.
type SessionExpiredError struct {
	Reason string
}

func (e *SessionExpiredError) Error() string {
	if e.Reason == "" {
		return "session expired"
	}
	return "session expired: " + e.Reason
}

// APIError is any non-2xx HTTP response normalized into one shape. A response
// carrying field-level validation failures is an APIError with FieldErrors
// populated (HTTP 422-class).
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors []FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsValidation reports whether this error carries field-level failures.
func (e *APIError) IsValidation() bool { return len(e.FieldErrors) > 0 }

// ContractError reports a success response with an unexpected or missing
// shape, e.g. login success without user data. This is a deliberate contract:
// downstream code assumes one of the known shapes, so an unknown one fails
// loudly instead of being silently tolerated.
type ContractError struct {
	Op     string
	Detail string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: unexpected response: %s", e.Op, e.Detail)
}

// ============================================================================
// Predicates
// ============================================================================

// IsSessionExpired reports whether err is (or wraps) a SessionExpiredError.
func IsSessionExpired(err error) bool {
	var se *SessionExpiredError
	return errors.As(err, &se)
}

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ============================================================================
// Normalization
// ============================================================================

// normalizeErrorResponse turns a non-2xx response body into an APIError.
// Message priority: server-supplied message, then joined field-validation
// messages, then a generic fallback derived from the status code.
func normalizeErrorResponse(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.FieldErrors = env.Errors

		switch {
		case env.Message != "":
			apiErr.Message = env.Message
		case len(env.Errors) > 0:
			msgs := make([]string, 0, len(env.Errors))
			for _, fe := range env.Errors {
				msgs = append(msgs, fe.Message)
			}
			apiErr.Message = strings.Join(msgs, ", ")
		}
	}

	if apiErr.Message == "" {
		text := http.StatusText(statusCode)
		if text == "" {
			text = "request failed"
		}
		apiErr.Message = text
	}

	return apiErr
}
