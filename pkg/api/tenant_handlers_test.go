package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	env.tenants.profile = &tenants.TenantProfile{
		TenantID:            "t-1",
		RagioneSociale:      "Impresa Rossi SRL",
		OnboardingCompleted: true,
	}

	rec := env.do(t, http.MethodGet, "/api/tenants/profilo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Impresa Rossi SRL")
}

func TestUpdateProfileRequiresWriteGrant(t *testing.T) {
	// admin_readonly reaches the handler (the wrapper passes any active
	// member) but the permission table denies tenant:update.
	env := newTestEnv(t).as(permissions.RoleAdminReadonly)

	rec := env.do(t, http.MethodPut, "/api/tenants/profilo", map[string]string{
		"ragione_sociale": "Nuovo Nome SRL",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, env.tenants.updates)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.tenants.profile = &tenants.TenantProfile{TenantID: "t-1", RagioneSociale: "Nuovo Nome SRL"}

	rec := env.do(t, http.MethodPut, "/api/tenants/profilo", map[string]string{
		"ragione_sociale": "Nuovo Nome SRL",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.tenants.updates)
	require.NotNil(t, env.tenants.updates.RagioneSociale)
	assert.Equal(t, "Nuovo Nome SRL", *env.tenants.updates.RagioneSociale)
}

func TestCompleteOnboarding(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/onboarding/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"t-1"}, env.tenants.onboarded)
	assert.Contains(t, rec.Body.String(), "onboarding_completed")
}

func TestUserDirectoryAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	env.tenants.members = []*tenants.MemberView{
		{Membership: tenants.Membership{UserID: "u-1", TenantID: "t-1", Role: permissions.RoleOwner}, Email: "titolare@impresa.it"},
	}

	rec := env.do(t, http.MethodGet, "/api/utenti", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "titolare@impresa.it")

	env.as(permissions.RoleOperaio)
	rec = env.do(t, http.MethodGet, "/api/utenti", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
