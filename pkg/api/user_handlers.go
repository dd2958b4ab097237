package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/auth"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
)

// UserHandlers serves the user directory for admin screens. The whole
// group sits behind the admin wrapper, so an operaio token never
// reaches these handlers at all.
type UserHandlers struct {
	tenants TenantService
	logger  *observability.Logger
}

// NewUserHandlers creates the user directory handlers.
func NewUserHandlers(service TenantService, logger *observability.Logger) *UserHandlers {
	return &UserHandlers{tenants: service, logger: logger}
}

func (h *UserHandlers) listUsers(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	members, err := h.tenants.ListMembers(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"users": members})
}

func (h *UserHandlers) getUser(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	member, err := h.tenants.GetMember(r.Context(), ac.Tenant.TenantID, userID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, member)
}

// register mounts the user directory behind the admin wrapper.
func (h *UserHandlers) register(router *mux.Router, adminWrap func(http.Handler) http.Handler) {
	router.Handle("/api/utenti", adminWrap(http.HandlerFunc(h.listUsers))).Methods(http.MethodGet)
	router.Handle("/api/utenti/{id}", adminWrap(http.HandlerFunc(h.getUser))).Methods(http.MethodGet)
}
