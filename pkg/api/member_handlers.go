package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/auth"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// invitationTTL is how long an invitation stays acceptable.
const invitationTTL = 7 * 24 * time.Hour

// MemberHandlers serves membership management: the member list, role
// and activation changes, and the invitation lifecycle. Everything but
// listing and accepting an invitation is admin gated by the wrapper.
type MemberHandlers struct {
	tenants  TenantService
	identity identity.Provider
	logger   *observability.Logger
}

// NewMemberHandlers creates the membership handlers.
func NewMemberHandlers(service TenantService, provider identity.Provider, logger *observability.Logger) *MemberHandlers {
	return &MemberHandlers{tenants: service, identity: provider, logger: logger}
}

func (h *MemberHandlers) listMembers(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	members, err := h.tenants.ListMembers(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"members": members})
}

type addMemberRequest struct {
	UserID       string  `json:"user_id"`
	Role         string  `json:"role"`
	CustomRoleID *string `json:"custom_role_id,omitempty"`
}

func (h *MemberHandlers) addMember(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req addMemberRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.UserID, "user_id") || !httputil.RequireNonEmpty(w, req.Role, "role") {
		return
	}
	role, ok := assignableRole(req.Role)
	if !ok {
		httputil.WriteValidationError(w, "unknown role: "+req.Role)
		return
	}

	membership, err := h.tenants.AddMember(r.Context(), ac.Tenant.TenantID, req.UserID, role, req.CustomRoleID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeMemberAdd,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeMember, req.UserID, nil, "member added")
	httputil.WriteCreated(w, membership)
}

type updateRoleRequest struct {
	Role         string  `json:"role"`
	CustomRoleID *string `json:"custom_role_id,omitempty"`
}

func (h *MemberHandlers) updateRole(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	userID, ok := httputil.ParsePathStringOrError(w, r, "userID")
	if !ok {
		return
	}

	var req updateRoleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	role, valid := assignableRole(req.Role)
	if !valid {
		httputil.WriteValidationError(w, "unknown role: "+req.Role)
		return
	}

	if err := h.tenants.UpdateMemberRole(r.Context(), ac.Tenant.TenantID, userID, role, req.CustomRoleID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeMemberRoleChange,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeMember, userID,
		&audit.ChangeDetails{After: map[string]interface{}{"role": req.Role}}, "member role changed")
	httputil.WriteNoContent(w)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *MemberHandlers) setActive(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	userID, ok := httputil.ParsePathStringOrError(w, r, "userID")
	if !ok {
		return
	}

	// Deactivating yourself would lock you out mid-session.
	if userID == ac.User.ID {
		httputil.WriteValidationError(w, "cannot change your own activation state")
		return
	}

	var req setActiveRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if err := h.tenants.SetMemberActive(r.Context(), ac.Tenant.TenantID, userID, req.Active); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	eventType := audit.EventTypeMemberDeactivate
	if req.Active {
		eventType = audit.EventTypeMemberActivate
	}
	audit.FromContext(r.Context()).LogMutation(r.Context(), eventType,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeMember, userID, nil, "member activation changed")
	httputil.WriteNoContent(w)
}

func (h *MemberHandlers) removeMember(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	userID, ok := httputil.ParsePathStringOrError(w, r, "userID")
	if !ok {
		return
	}

	if userID == ac.User.ID {
		httputil.WriteValidationError(w, "cannot remove yourself")
		return
	}

	if err := h.tenants.RemoveMember(r.Context(), ac.Tenant.TenantID, userID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeMemberRemove,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeMember, userID, nil, "member removed")
	httputil.WriteNoContent(w)
}

type createInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *MemberHandlers) createInvitation(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req createInvitationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Email, "email") {
		return
	}
	role, ok := assignableRole(req.Role)
	if !ok {
		httputil.WriteValidationError(w, "unknown role: "+req.Role)
		return
	}

	invitation := &tenants.Invitation{
		TenantID:  ac.Tenant.TenantID,
		Email:     req.Email,
		Role:      role,
		InvitedBy: &ac.User.ID,
		ExpiresAt: time.Now().Add(invitationTTL),
	}
	if err := h.tenants.CreateInvitation(r.Context(), invitation); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeInvitationCreate,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeInvitation, req.Email, nil, "invitation created")
	httputil.WriteCreated(w, invitation)
}

func (h *MemberHandlers) listInvitations(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	invitations, err := h.tenants.ListInvitations(r.Context(), ac.Tenant.TenantID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{"invitations": invitations})
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

// acceptInvitation runs outside the wrapper: the accepting user has no
// membership yet, accepting is what creates it. Authentication is still
// required.
func (h *MemberHandlers) acceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.UserFromRequest(r)
	if err != nil {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req acceptInvitationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Token, "token") {
		return
	}

	if err := h.tenants.AcceptInvitation(r.Context(), req.Token, user.ID); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeInvitationAccept,
		user.ID, "", audit.ResourceTypeInvitation, "", nil, "invitation accepted")
	httputil.WriteSuccess(w, map[string]string{"status": "accepted"})
}

func (h *MemberHandlers) revokeInvitation(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if err := h.tenants.RevokeInvitation(r.Context(), ac.Tenant.TenantID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	audit.FromContext(r.Context()).LogMutation(r.Context(), audit.EventTypeInvitationRevoke,
		ac.User.ID, ac.Tenant.TenantID, audit.ResourceTypeInvitation, "", nil, "invitation revoked")
	httputil.WriteNoContent(w)
}

// register mounts the membership endpoints. wrap authorizes any active
// member, adminWrap requires the legacy admin or owner role.
func (h *MemberHandlers) register(router *mux.Router, wrap, adminWrap func(http.Handler) http.Handler) {
	router.Handle("/api/membri", wrap(http.HandlerFunc(h.listMembers))).Methods(http.MethodGet)
	router.Handle("/api/membri", adminWrap(http.HandlerFunc(h.addMember))).Methods(http.MethodPost)
	router.Handle("/api/membri/{userID}/ruolo", adminWrap(http.HandlerFunc(h.updateRole))).Methods(http.MethodPut)
	router.Handle("/api/membri/{userID}/stato", adminWrap(http.HandlerFunc(h.setActive))).Methods(http.MethodPut)
	router.Handle("/api/membri/{userID}", adminWrap(http.HandlerFunc(h.removeMember))).Methods(http.MethodDelete)

	router.Handle("/api/inviti", adminWrap(http.HandlerFunc(h.createInvitation))).Methods(http.MethodPost)
	router.Handle("/api/inviti", adminWrap(http.HandlerFunc(h.listInvitations))).Methods(http.MethodGet)
	router.HandleFunc("/api/inviti/accept", h.acceptInvitation).Methods(http.MethodPost)
	router.Handle("/api/inviti/{id}", adminWrap(http.HandlerFunc(h.revokeInvitation))).Methods(http.MethodDelete)
}

// assignableRole validates a role string against the assignable set.
// Legacy roles are not assignable to new members.
func assignableRole(s string) (permissions.TenantRole, bool) {
	role := permissions.TenantRole(s)
	for _, r := range permissions.ActiveRoles {
		if role == r {
			return role, true
		}
	}
	return "", false
}
