package hrsdk

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func seedSession(t *testing.T, store SessionStore, access, refresh string) {
	t.Helper()
	require.NoError(t, store.Save(Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         testUser(),
	}))
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env Envelope) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func rawData(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestClientRefreshAndRetry(t *testing.T) {
	t.Run("expired token is refreshed once and the request replayed", func(t *testing.T) {
		var meCalls, refreshCalls atomic.Int64

		mux := http.NewServeMux()
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			meCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				writeEnvelope(t, w, http.StatusUnauthorized, Envelope{Message: "token expired"})
				return
			}
			writeEnvelope(t, w, http.StatusOK, Envelope{
				Success: true,
				Data:    rawData(t, authPayload{User: testUser()}),
			})
		})
		mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)

			var req refreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "refresh-1", req.RefreshToken)

			writeEnvelope(t, w, http.StatusOK, Envelope{
				Success: true,
				Data:    rawData(t, refreshPayload{AccessToken: "fresh-access"}),
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := NewMemoryStore()
		seedSession(t, store, "stale-access", "refresh-1")
		client := NewClient(srv.URL, store)

		user, err := client.GetMe(context.Background())
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, "ada@example.com", user.Email)

		require.Equal(t, int64(2), meCalls.Load())
		require.Equal(t, int64(1), refreshCalls.Load())

		// The refreshed access token is persisted in place, refresh token kept.
		sess, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "fresh-access", sess.AccessToken)
		require.Equal(t, "refresh-1", sess.RefreshToken)
	})

	t.Run("rejected refresh clears the session and reports expiry", func(t *testing.T) {
		var expired atomic.Bool

		mux := http.NewServeMux()
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusUnauthorized, Envelope{Message: "token expired"})
		})
		mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusUnauthorized, Envelope{Message: "refresh token revoked"})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := NewMemoryStore()
		seedSession(t, store, "stale-access", "revoked-refresh")
		client := NewClient(srv.URL, store)
		client.OnSessionExpired = func() { expired.Store(true) }

		_, err := client.GetMe(context.Background())
		require.Error(t, err)
		require.True(t, IsSessionExpired(err))
		require.True(t, expired.Load())

		sess, err := store.Load()
		require.NoError(t, err)
		require.Nil(t, sess)
	})

	t.Run("missing refresh token expires without touching the network", func(t *testing.T) {
		var refreshCalls atomic.Int64

		mux := http.NewServeMux()
		mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusUnauthorized, Envelope{Message: "token expired"})
		})
		mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := NewMemoryStore()
		seedSession(t, store, "stale-access", "")
		client := NewClient(srv.URL, store)

		_, err := client.GetMe(context.Background())
		require.True(t, IsSessionExpired(err))
		require.Equal(t, int64(0), refreshCalls.Load())
	})

	t.Run("401 on login is a credentials failure, never a refresh", func(t *testing.T) {
		var refreshCalls atomic.Int64

		mux := http.NewServeMux()
		mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(t, w, http.StatusUnauthorized, Envelope{Message: "Invalid email or password"})
		})
		mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		store := NewMemoryStore()
		seedSession(t, store, "access", "refresh")
		client := NewClient(srv.URL, store)

		_, err := client.PostLogin(context.Background(), Credentials{
			Email:    "ada@example.com",
			Password: "wrong",
		})
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "Invalid email or password", apiErr.Message)
		require.Equal(t, int64(0), refreshCalls.Load())

		// Session untouched.
		sess, err := store.Load()
		require.NoError(t, err)
		require.NotNil(t, sess)
	})
}

func TestClientErrors(t *testing.T) {
	t.Run("transport failure surfaces as a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // connection refused from here on

		client := NewClient(srv.URL, NewMemoryStore())
		_, err := client.GetMe(context.Background())
		require.True(t, IsNetworkError(err))
		require.False(t, IsSessionExpired(err))
	})

	t.Run("invalid credentials are rejected before egress", func(t *testing.T) {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, NewMemoryStore())
		_, err := client.PostLogin(context.Background(), Credentials{Email: "not-an-email", Password: "x"})
		require.Error(t, err)
		require.Equal(t, int64(0), calls.Load())
	})

	t.Run("non-envelope success body is a contract violation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>gateway page</html>"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, NewMemoryStore())
		_, err := client.GetMe(context.Background())

		var contractErr *ContractError
		require.ErrorAs(t, err, &contractErr)
	})
}

func TestNormalizeErrorResponse(t *testing.T) {
	t.Run("server message wins", func(t *testing.T) {
		body := []byte(`{"success":false,"message":"Email already in use","errors":[{"field":"email","message":"taken"}]}`)
		apiErr := normalizeErrorResponse(http.StatusConflict, body)
		require.Equal(t, "Email already in use", apiErr.Message)
		require.True(t, apiErr.IsValidation())
	})

	t.Run("field messages joined when no message", func(t *testing.T) {
		body := []byte(`{"success":false,"errors":[{"field":"email","message":"invalid email"},{"field":"password","message":"too short"}]}`)
		apiErr := normalizeErrorResponse(http.StatusUnprocessableEntity, body)
		require.Equal(t, "invalid email, too short", apiErr.Message)
		require.Len(t, apiErr.FieldErrors, 2)
	})

	t.Run("status text fallback for opaque bodies", func(t *testing.T) {
		apiErr := normalizeErrorResponse(http.StatusBadGateway, []byte("upstream down"))
		require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
		require.False(t, apiErr.IsValidation())
	})
}

// unsignedJWT builds a structurally valid JWT with the given claims and an
// empty signature. Good enough for exp peeking, which never verifies.
func unsignedJWT(t *testing.T, claims map[string]any) string {
	t.Helper()

	enc := func(v any) string {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(data)
	}
	return enc(map[string]string{"alg": "none", "typ": "JWT"}) + "." + enc(claims) + "."
}

func TestAccessTokenExpiry(t *testing.T) {
	t.Run("reports the exp claim", func(t *testing.T) {
		exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		store := NewMemoryStore()
		require.NoError(t, store.Save(Session{
			AccessToken: unsignedJWT(t, map[string]any{"exp": exp.Unix()}),
		}))

		client := NewClient("http://localhost:5000/api/v1", store)
		require.True(t, client.AccessTokenExpiry().Equal(exp))
	})

	t.Run("zero time for missing or opaque tokens", func(t *testing.T) {
		store := NewMemoryStore()
		client := NewClient("http://localhost:5000/api/v1", store)
		require.True(t, client.AccessTokenExpiry().IsZero())

		require.NoError(t, store.Save(Session{AccessToken: "opaque-token"}))
		require.True(t, client.AccessTokenExpiry().IsZero())
	})
}
