package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// AuthHandlers serves the account lifecycle endpoints: signup and
// account recovery. Both run before a tenant membership exists, so
// neither sits behind the authorization wrapper; recovery does its own
// authentication against the identity provider.
type AuthHandlers struct {
	signup   SignupService
	identity identity.Provider
	logger   *observability.Logger
}

// NewAuthHandlers creates the account lifecycle handlers.
func NewAuthHandlers(signup SignupService, provider identity.Provider, logger *observability.Logger) *AuthHandlers {
	return &AuthHandlers{signup: signup, identity: provider, logger: logger}
}

// RegisterRoutes mounts the account lifecycle endpoints.
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/signup", h.handleSignup).Methods(http.MethodPost)
	router.HandleFunc("/api/account-recovery", h.handleRecover).Methods(http.MethodPost)
}

func (h *AuthHandlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req tenants.SignupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	result, err := h.signup.Signup(r.Context(), &req)
	if err != nil {
		if errors.Is(err, tenants.ErrEmailTaken) {
			httputil.WriteConflict(w, "Email already registered")
			return
		}
		if vErr := req.Validate(); vErr != nil {
			httputil.WriteValidationError(w, vErr.Error())
			return
		}
		h.logger.WithError(err).Error("signup failed")
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeAccountSignup,
		result.UserID, result.TenantID, audit.ResourceTypeTenant, result.TenantID, nil, "account created")
	httputil.WriteCreated(w, result)
}

type recoverRequest struct {
	RagioneSociale string `json:"ragione_sociale"`
}

// handleRecover rebuilds the tenant side of a half-provisioned account.
// The caller must authenticate but deliberately has no membership, so
// this endpoint cannot use the wrapper: the wrapper would answer 404
// before the handler ran.
func (h *AuthHandlers) handleRecover(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.UserFromRequest(r)
	if err != nil {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req recoverRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	result, err := h.signup.Recover(r.Context(), user.ID, req.RagioneSociale)
	if err != nil {
		if errors.Is(err, tenants.ErrAlreadyMember) {
			httputil.WriteConflict(w, "User already belongs to a tenant")
			return
		}
		if req.RagioneSociale == "" {
			httputil.WriteValidationError(w, "ragione_sociale is required")
			return
		}
		h.logger.WithError(err).WithField("user_id", user.ID).Error("account recovery failed")
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeAccountRecover,
		user.ID, result.TenantID, audit.ResourceTypeTenant, result.TenantID, nil, "account recovered")
	httputil.WriteSuccess(w, result)
}
