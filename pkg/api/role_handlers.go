package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/auth"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
)

// RoleHandlers serves the custom role CRUD. Reading is open to any
// active member so the UI can render role pickers; writing is admin
// gated. System roles can be read but never deleted, and the store
// refuses updates on them too.
type RoleHandlers struct {
	roles  RoleStore
	logger *observability.Logger
}

// NewRoleHandlers creates the custom role handlers.
func NewRoleHandlers(store RoleStore, logger *observability.Logger) *RoleHandlers {
	return &RoleHandlers{roles: store, logger: logger}
}

func (h *RoleHandlers) listRoles(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	list, err := h.roles.List(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"roles": list})
}

func (h *RoleHandlers) getRole(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	roleID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	role, err := h.roles.Get(r.Context(), ac.Tenant.TenantID, roleID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, role)
}

func (h *RoleHandlers) createRole(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var in roles.CreateInput
	if !httputil.ParseJSONOrError(w, r, &in) {
		return
	}
	if !httputil.RequireNonEmpty(w, in.Name, "name") {
		return
	}

	role, err := h.roles.Create(r.Context(), ac.Tenant.TenantID, ac.User.ID, in)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeRoleCreate,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeRole, role.ID, nil, "custom role created")
	httputil.WriteCreated(w, role)
}

func (h *RoleHandlers) updateRole(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	roleID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var in roles.UpdateInput
	if !httputil.ParseJSONOrError(w, r, &in) {
		return
	}

	if err := h.roles.Update(r.Context(), ac.Tenant.TenantID, roleID, in); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeRoleUpdate,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeRole, roleID, nil, "custom role updated")
	httputil.WriteNoContent(w)
}

func (h *RoleHandlers) deleteRole(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	roleID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.roles.Delete(r.Context(), ac.Tenant.TenantID, roleID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeRoleDelete,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeRole, roleID, nil, "custom role deleted")
	httputil.WriteNoContent(w)
}

// register mounts the role endpoints.
func (h *RoleHandlers) register(router *mux.Router, wrap, adminWrap func(http.Handler) http.Handler) {
	router.Handle("/api/ruoli", wrap(http.HandlerFunc(h.listRoles))).Methods(http.MethodGet)
	router.Handle("/api/ruoli", adminWrap(http.HandlerFunc(h.createRole))).Methods(http.MethodPost)
	router.Handle("/api/ruoli/{id}", wrap(http.HandlerFunc(h.getRole))).Methods(http.MethodGet)
	router.Handle("/api/ruoli/{id}", adminWrap(http.HandlerFunc(h.updateRole))).Methods(http.MethodPut)
	router.Handle("/api/ruoli/{id}", adminWrap(http.HandlerFunc(h.deleteRole))).Methods(http.MethodDelete)
}
