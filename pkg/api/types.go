package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

// TenantService is the slice of the tenant store the API handlers use.
// *tenants.PostgresService implements it.
type TenantService interface {
	GetProfile(ctx context.Context, tenantID string) (*tenants.TenantProfile, error)
	UpdateProfile(ctx context.Context, tenantID string, updates *tenants.UpdateProfileRequest) error
	CompleteOnboarding(ctx context.Context, tenantID string) error

	ListMembers(ctx context.Context, tenantID string) ([]*tenants.MemberView, error)
	GetMember(ctx context.Context, tenantID, userID string) (*tenants.MemberView, error)
	AddMember(ctx context.Context, tenantID, userID string, role permissions.TenantRole, customRoleID *string) (*tenants.Membership, error)
	UpdateMemberRole(ctx context.Context, tenantID, userID string, role permissions.TenantRole, customRoleID *string) error
	SetMemberActive(ctx context.Context, tenantID, userID string, active bool) error
	RemoveMember(ctx context.Context, tenantID, userID string) error

	CreateInvitation(ctx context.Context, invitation *tenants.Invitation) error
	ListInvitations(ctx context.Context, tenantID string) ([]*tenants.Invitation, error)
	AcceptInvitation(ctx context.Context, token, userID string) error
	RevokeInvitation(ctx context.Context, tenantID string, id int64) error
}

// RoleStore is the custom-role persistence the role handlers use.
// *roles.Store implements it.
type RoleStore interface {
	Create(ctx context.Context, tenantID, createdBy string, in roles.CreateInput) (*roles.CustomRole, error)
	Get(ctx context.Context, tenantID, roleID string) (*roles.CustomRole, error)
	List(ctx context.Context, tenantID string) ([]*roles.CustomRole, error)
	Update(ctx context.Context, tenantID, roleID string, in roles.UpdateInput) error
	Delete(ctx context.Context, tenantID, roleID string) error
}

// SignupService runs registration and account recovery.
// *tenants.SignupFlow implements it.
type SignupService interface {
	Signup(ctx context.Context, req *tenants.SignupRequest) (*tenants.SignupResult, error)
	Recover(ctx context.Context, userID, ragioneSociale string) (*tenants.SignupResult, error)
}

// RapportinoStore persists time reports. *RapportiniStore implements it.
type RapportinoStore interface {
	List(ctx context.Context, tenantID string) ([]*Rapportino, error)
	ListByUser(ctx context.Context, tenantID, userID string) ([]*Rapportino, error)
	Get(ctx context.Context, tenantID string, id int64) (*Rapportino, error)
	Create(ctx context.Context, r *Rapportino) error
	Update(ctx context.Context, r *Rapportino) error
	Delete(ctx context.Context, tenantID string, id int64) error
}

// writeStoreError maps store errors onto the API's error statuses. The
// stores return plain sentinel messages, so the mapping is by message.
// Unmapped errors go to the log; the response body stays generic.
func writeStoreError(w http.ResponseWriter, logger *observability.Logger, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		httputil.WriteNotFoundError(w, msg)
	case strings.Contains(msg, "already"):
		httputil.WriteConflict(w, msg)
	case strings.Contains(msg, "expired"):
		httputil.WriteErrorMessage(w, http.StatusGone, msg)
	default:
		logger.WithError(err).Error("store operation failed")
		httputil.WriteErrorMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
