package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
)

func TestListRolesOpenToMembers(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)
	key := permissions.SystemRoleDipendente
	env.roles.list = []*roles.CustomRole{
		{ID: "r-1", TenantID: "t-1", Name: "Dipendente", IsSystemRole: true, SystemKey: &key},
		{ID: "r-2", TenantID: "t-1", Name: "Capo Cantiere"},
	}

	rec := env.do(t, http.MethodGet, "/api/ruoli", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Capo Cantiere")
}

func TestCreateRoleRequiresName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/ruoli", map[string]interface{}{
		"description": "senza nome",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRole(t *testing.T) {
	env := newTestEnv(t)
	env.roles.role = &roles.CustomRole{ID: "r-3", TenantID: "t-1", Name: "Capo Cantiere"}

	rec := env.do(t, http.MethodPost, "/api/ruoli", map[string]interface{}{
		"name": "Capo Cantiere",
		"permissions": map[string]interface{}{
			"rapportini": map[string][]string{"own": {"view", "create"}, "all": {"view"}},
		},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteSystemRoleRefused(t *testing.T) {
	env := newTestEnv(t)
	env.roles.err = errors.New("custom role not found or is a system role")

	rec := env.do(t, http.MethodDelete, "/api/ruoli/r-system", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{"r-system"}, env.roles.deleted)
}

func TestDeleteRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/ruoli/r-2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"r-2"}, env.roles.deleted)
}

func TestUpdateRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/ruoli/r-2", map[string]interface{}{
		"name": "Capo Squadra",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
