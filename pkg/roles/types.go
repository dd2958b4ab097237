package roles

import (
	"time"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

// CustomRole is a per-tenant role definition. System roles carry a
// SystemRoleKey linking back to the built-in enumeration; tenant-authored
// roles carry nil and rely entirely on their Permissions payload.
type CustomRole struct {
	ID           string                    `json:"id"`
	TenantID     string                    `json:"tenant_id"`
	Name         string                    `json:"name"`
	Description  *string                   `json:"description,omitempty"`
	IsSystemRole bool                      `json:"is_system_role"`
	SystemKey    *permissions.SystemRoleKey `json:"system_role_key,omitempty"`
	Permissions  RolePermissions           `json:"permissions"`
	Icon         *string                   `json:"icon,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	CreatedBy    *string                   `json:"created_by,omitempty"`
}

// RolePermissions is the JSONB permissions payload of a custom role,
// grouping allowed actions by resource category. Rapportini split into own
// and all, matching the permission table.
type RolePermissions struct {
	Users      []string              `json:"users,omitempty"`
	Dipendenti []string              `json:"dipendenti,omitempty"`
	Commesse   []string              `json:"commesse,omitempty"`
	Rapportini *RapportiniPermissions `json:"rapportini,omitempty"`
	Clienti    []string              `json:"clienti,omitempty"`
	Fornitori  []string              `json:"fornitori,omitempty"`
	Fatture    []string              `json:"fatture,omitempty"`
	Costi      []string              `json:"costi,omitempty"`
	Documenti  []string              `json:"documenti,omitempty"`
	Settings   []string              `json:"settings,omitempty"`
	Billing    []string              `json:"billing,omitempty"`
	Critical   []string              `json:"critical,omitempty"`
	Profile    []string              `json:"profile,omitempty"`
}

// RapportiniPermissions separates grants on the caller's own time reports
// from grants on everyone's.
type RapportiniPermissions struct {
	Own []string `json:"own,omitempty"`
	All []string `json:"all,omitempty"`
}

// CreateInput is the payload for creating a tenant-authored role.
type CreateInput struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Permissions RolePermissions `json:"permissions"`
	Icon        *string         `json:"icon,omitempty"`
}

// UpdateInput is the payload for updating a custom role. Nil fields are
// left untouched.
type UpdateInput struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Permissions *RolePermissions `json:"permissions,omitempty"`
	Icon        *string          `json:"icon,omitempty"`
}
