package tenants

import (
	"time"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

// Tenant is a single company account. All domain data hangs off a tenant;
// nothing is shared across tenants.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantProfile carries the company registry data collected during
// onboarding. OnboardingCompleted gates the whole admin area: until it
// flips to true the routing guard keeps the tenant inside /onboarding.
type TenantProfile struct {
	TenantID            string    `json:"tenant_id"`
	RagioneSociale      string    `json:"ragione_sociale"`
	PartitaIVA          *string   `json:"partita_iva,omitempty"`
	CodiceFiscale       *string   `json:"codice_fiscale,omitempty"`
	Indirizzo           *string   `json:"indirizzo,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Membership is one row of user_tenants: the link between an identity
// user and a tenant, carrying the legacy role and an optional custom
// role reference. A user may hold several memberships; resolution picks
// the most recently created one.
type Membership struct {
	ID           string                `json:"id"`
	UserID       string                `json:"user_id"`
	TenantID     string                `json:"tenant_id"`
	Role         permissions.TenantRole `json:"role"`
	CustomRoleID *string               `json:"custom_role_id,omitempty"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    time.Time             `json:"created_at"`
}

// MemberView is a membership enriched with the user's profile fields,
// read from the tenant_members_view.
type MemberView struct {
	Membership
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Invitation invites an email address into a tenant with a given role.
// Unaccepted invitations expire and are swept by a scheduled cleanup.
type Invitation struct {
	ID         int64                  `json:"id"`
	TenantID   string                 `json:"tenant_id"`
	Email      string                 `json:"email"`
	Role       permissions.TenantRole `json:"role"`
	Token      string                 `json:"token"`
	InvitedBy  *string                `json:"invited_by,omitempty"`
	InvitedAt  time.Time              `json:"invited_at"`
	ExpiresAt  time.Time              `json:"expires_at"`
	AcceptedAt *time.Time             `json:"accepted_at,omitempty"`
	AcceptedBy *string                `json:"accepted_by,omitempty"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	RagioneSociale *string `json:"ragione_sociale,omitempty"`
	PartitaIVA     *string `json:"partita_iva,omitempty"`
	CodiceFiscale  *string `json:"codice_fiscale,omitempty"`
	Indirizzo      *string `json:"indirizzo,omitempty"`
}
