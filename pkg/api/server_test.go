package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

func TestServerUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	env.identity.user = nil

	for _, target := range []string{"/api/membri", "/api/ruoli", "/api/rapportini", "/api/tenants/profilo"} {
		rec := env.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, "Not authenticated", errorBody(t, rec), target)
	}
}

func TestServerNoTenant(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.resolution = tenants.Resolution{State: tenants.ResolutionNotFound}

	rec := env.do(t, http.MethodGet, "/api/membri", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No tenant found", errorBody(t, rec))
}

func TestServerInactiveMembership(t *testing.T) {
	env := newTestEnv(t)
	resolution := membershipFor(permissions.RoleAdmin)
	resolution.Membership.IsActive = false
	env.resolver.resolution = resolution

	rec := env.do(t, http.MethodGet, "/api/membri", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User is inactive", errorBody(t, rec))
}

func TestServerAdminGate(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)

	adminTargets := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/utenti"},
		{http.MethodPost, "/api/membri"},
		{http.MethodPost, "/api/inviti"},
		{http.MethodDelete, "/api/ruoli/r-1"},
	}
	for _, tc := range adminTargets {
		rec := env.do(t, tc.method, tc.target, map[string]string{})
		assert.Equal(t, http.StatusForbidden, rec.Code, tc.target)
		assert.Equal(t, "Unauthorized - Admin access required", errorBody(t, rec), tc.target)
	}
}

func TestServerMemberRoutesAllowNonAdmins(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)

	rec := env.do(t, http.MethodGet, "/api/membri", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/ruoli", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/membri", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServerQueryErrorAnsweredAsNoTenant(t *testing.T) {
	env := newTestEnv(t)
	env.resolver.resolution = tenants.Resolution{
		State: tenants.ResolutionQueryError,
		Err:   assert.AnError,
	}

	rec := env.do(t, http.MethodGet, "/api/membri", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No tenant found", errorBody(t, rec))
}

func TestServerSignupStaysPublic(t *testing.T) {
	env := newTestEnv(t)
	env.identity.user = nil
	env.signup.result = &tenants.SignupResult{UserID: "u-new", TenantID: "t-new"}

	rec := env.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":           "nuovo@impresa.it",
		"password":        "segretissimo",
		"nome":            "Nuovo",
		"cognome":         "Utente",
		"ragione_sociale": "Impresa Nuova SRL",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
