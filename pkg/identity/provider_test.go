package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// stubVerifier accepts a fixed set of tokens and counts verifications.
type stubVerifier struct {
	users  map[string]User
	calls  int
	expiry time.Time
}

func (s *stubVerifier) Verify(_ context.Context, rawToken string) (User, time.Time, error) {
	s.calls++
	user, ok := s.users[rawToken]
	if !ok {
		return User{}, time.Time{}, fmt.Errorf("unknown token")
	}
	expiry := s.expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return user, expiry, nil
}

func newTestProvider(verifier tokenVerifier) *OIDCProvider {
	return &OIDCProvider{
		verifier: verifier,
		cache:    lru.NewLRU[string, User](16, nil, time.Minute),
	}
}

func TestUserFromRequest(t *testing.T) {
	verifier := &stubVerifier{users: map[string]User{
		"tok-1": {ID: "u-1", Email: "mario@example.com"},
	}}
	provider := newTestProvider(verifier)

	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)
		r.Header.Set("Authorization", "Bearer tok-1")

		user, err := provider.UserFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, "mario@example.com", user.Email)
	})

	t.Run("session cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})

		user, err := provider.UserFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
	})

	t.Run("no credentials", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)

		_, err := provider.UserFromRequest(r)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		_, err := provider.UserFromRequest(r)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("invalid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)
		r.Header.Set("Authorization", "Bearer forged")

		_, err := provider.UserFromRequest(r)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestUserFromRequestCachesVerifiedTokens(t *testing.T) {
	verifier := &stubVerifier{users: map[string]User{
		"tok-1": {ID: "u-1", Email: "mario@example.com"},
	}}
	provider := newTestProvider(verifier)

	for i := 0; i < 5; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)
		r.Header.Set("Authorization", "Bearer tok-1")
		_, err := provider.UserFromRequest(r)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, verifier.calls, "repeated requests should hit the cache")
}

func TestUserFromRequestSkipsCachingExpiredTokens(t *testing.T) {
	verifier := &stubVerifier{
		users:  map[string]User{"tok-1": {ID: "u-1"}},
		expiry: time.Now().Add(-time.Minute),
	}
	provider := newTestProvider(verifier)

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/api/rapportini", nil)
		r.Header.Set("Authorization", "Bearer tok-1")
		_, err := provider.UserFromRequest(r)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, verifier.calls)
}

func TestAdminClientCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/admin/users", r.URL.Path)
			assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

			var payload map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "mario@example.com", payload["email"])

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "u-1"})
		}))
		defer server.Close()

		client, err := NewAdminClient(server.URL, "service-key")
		require.NoError(t, err)

		id, err := client.CreateUser(context.Background(), "mario@example.com", "segretissimo")
		require.NoError(t, err)
		assert.Equal(t, "u-1", id)
	})

	t.Run("duplicate email", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client, err := NewAdminClient(server.URL, "service-key")
		require.NoError(t, err)

		_, err = client.CreateUser(context.Background(), "mario@example.com", "segretissimo")
		require.ErrorIs(t, err, tenants.ErrEmailTaken)
	})

	t.Run("provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := NewAdminClient(server.URL, "service-key")
		require.NoError(t, err)

		_, err = client.CreateUser(context.Background(), "mario@example.com", "segretissimo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})
}

func TestAdminClientDeleteUser(t *testing.T) {
	t.Run("deleting unknown user is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/admin/users/u-404", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewAdminClient(server.URL, "service-key")
		require.NoError(t, err)

		require.NoError(t, client.DeleteUser(context.Background(), "u-404"))
	})
}
