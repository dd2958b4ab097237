package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

func TestListRapportiniAdminSeesAll(t *testing.T) {
	env := newTestEnv(t)
	env.rapportini.reports = []*Rapportino{{ID: 1, TenantID: "t-1", UserID: "u-2", Data: "2026-08-01", Ore: 8}}

	rec := env.do(t, http.MethodGet, "/api/rapportini", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, env.rapportini.listAll)
	assert.Empty(t, env.rapportini.listOwn)
}

func TestListRapportiniOperaioSeesOwn(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)

	rec := env.do(t, http.MethodGet, "/api/rapportini", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.rapportini.listAll)
	assert.Equal(t, []string{"user-1"}, env.rapportini.listOwn)
}

func TestListRapportiniNoGrantDenied(t *testing.T) {
	// billing_manager holds neither rapportini grant.
	env := newTestEnv(t).as(permissions.RoleBillingManager)

	rec := env.do(t, http.MethodGet, "/api/rapportini", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetRapportinoOwnershipCheck(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)
	env.rapportini.report = &Rapportino{ID: 5, TenantID: "t-1", UserID: "u-other", Data: "2026-08-01", Ore: 8}

	rec := env.do(t, http.MethodGet, "/api/rapportini/5", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.rapportini.report.UserID = "user-1"
	rec = env.do(t, http.MethodGet, "/api/rapportini/5", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRapportinoForSelf(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)

	rec := env.do(t, http.MethodPost, "/api/rapportini", map[string]interface{}{
		"data": "2026-08-01", "ore": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.rapportini.creates, 1)
	assert.Equal(t, "user-1", env.rapportini.creates[0].UserID)
	assert.Equal(t, "t-1", env.rapportini.creates[0].TenantID)
}

func TestCreateRapportinoForOtherRequiresAllGrant(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)

	rec := env.do(t, http.MethodPost, "/api/rapportini", map[string]interface{}{
		"user_id": "u-2", "data": "2026-08-01", "ore": 8,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.rapportini.creates)

	env.as(permissions.RoleAdmin)
	rec = env.do(t, http.MethodPost, "/api/rapportini", map[string]interface{}{
		"user_id": "u-2", "data": "2026-08-01", "ore": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.rapportini.creates, 1)
	assert.Equal(t, "u-2", env.rapportini.creates[0].UserID)
}

func TestCreateRapportinoValidatesOre(t *testing.T) {
	env := newTestEnv(t)

	for _, ore := range []float64{0, -1, 25} {
		rec := env.do(t, http.MethodPost, "/api/rapportini", map[string]interface{}{
			"data": "2026-08-01", "ore": ore,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Empty(t, env.rapportini.creates)
}

func TestUpdateRapportinoOwnershipCheck(t *testing.T) {
	env := newTestEnv(t).as(permissions.RoleOperaio)
	env.rapportini.report = &Rapportino{ID: 5, TenantID: "t-1", UserID: "u-other", Data: "2026-08-01", Ore: 8}

	rec := env.do(t, http.MethodPut, "/api/rapportini/5", map[string]interface{}{
		"data": "2026-08-02", "ore": 6,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, env.rapportini.updates)
}

func TestDeleteRapportinoAdminOverridesOwnership(t *testing.T) {
	env := newTestEnv(t)
	env.rapportini.report = &Rapportino{ID: 5, TenantID: "t-1", UserID: "u-other", Data: "2026-08-01", Ore: 8}

	rec := env.do(t, http.MethodDelete, "/api/rapportini/5", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{5}, env.rapportini.deletes)
}

func TestRapportinoBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/rapportini/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
