package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/auth"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// TenantHandlers serves the tenant profile and the onboarding gate.
type TenantHandlers struct {
	tenants TenantService
	logger  *observability.Logger
}

// NewTenantHandlers creates the tenant profile handlers.
func NewTenantHandlers(service TenantService, logger *observability.Logger) *TenantHandlers {
	return &TenantHandlers{tenants: service, logger: logger}
}

func (h *TenantHandlers) getProfile(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	profile, err := h.tenants.GetProfile(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, profile)
}

func (h *TenantHandlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	if !permissions.HasPermission(ac.Tenant.Role.TableRole(), permissions.TenantUpdate) {
		httputil.WriteForbidden(w, "Insufficient permissions")
		return
	}

	var req tenants.UpdateProfileRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if err := h.tenants.UpdateProfile(r.Context(), ac.Tenant.TenantID, &req); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeTenantProfileUpdate,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeProfile, ac.Tenant.TenantID, nil, "profile updated")

	profile, err := h.tenants.GetProfile(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, profile)
}

func (h *TenantHandlers) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	if err := h.tenants.CompleteOnboarding(r.Context(), ac.Tenant.TenantID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeTenantOnboardingComplete,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeTenant, ac.Tenant.TenantID, nil, "onboarding completed")
	httputil.WriteSuccess(w, map[string]bool{"onboarding_completed": true})
}

// register mounts the tenant endpoints. wrap is the authorization
// wrapper for authenticated tenant members.
func (h *TenantHandlers) register(router *mux.Router, wrap func(http.Handler) http.Handler) {
	router.Handle("/api/tenants/profilo", wrap(http.HandlerFunc(h.getProfile))).Methods(http.MethodGet)
	router.Handle("/api/tenants/profilo", wrap(http.HandlerFunc(h.updateProfile))).Methods(http.MethodPut)
	router.Handle("/api/onboarding/complete", wrap(http.HandlerFunc(h.completeOnboarding))).Methods(http.MethodPost)
}
