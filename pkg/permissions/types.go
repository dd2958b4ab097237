package permissions

// TenantRole is the legacy role column on a tenant membership.
//
// Two generations of roles coexist in production data: the construction
// roles (owner, admin, admin_readonly, operaio, billing_manager) and the
// deprecated generic roles (member, viewer) from before the rename. Both
// must keep resolving.
type TenantRole string

const (
	RoleOwner          TenantRole = "owner"
	RoleAdmin          TenantRole = "admin"
	RoleAdminReadonly  TenantRole = "admin_readonly"
	RoleOperaio        TenantRole = "operaio"
	RoleBillingManager TenantRole = "billing_manager"

	// Deprecated legacy roles, kept for memberships created before the
	// role rename. Hidden from the UI, never assigned to new members.
	RoleMember TenantRole = "member"
	RoleViewer TenantRole = "viewer"
)

// ActiveRoles are the roles assignable to new members.
var ActiveRoles = []TenantRole{
	RoleAdmin,
	RoleAdminReadonly,
	RoleOperaio,
	RoleBillingManager,
}

// SystemRoleKey identifies a built-in role from the custom-role table.
// This is a SEPARATE enumeration from TenantRole: custom roles use
// "dipendente" where the legacy column uses "operaio", and the two scales
// are never unified in the data. Do not merge them.
type SystemRoleKey string

const (
	SystemRoleOwner         SystemRoleKey = "owner"
	SystemRoleAdmin         SystemRoleKey = "admin"
	SystemRoleAdminReadonly SystemRoleKey = "admin_readonly"
	SystemRoleDipendente    SystemRoleKey = "dipendente"
)

// Permission identifies an action on a resource category, e.g.
// "commesse:create" or "rapportini:own:view".
type Permission string

const (
	// User management
	UsersView   Permission = "users:view"
	UsersCreate Permission = "users:create"
	UsersUpdate Permission = "users:update"
	UsersDelete Permission = "users:delete"

	// Rapportini (time reports) - own
	RapportiniOwnView   Permission = "rapportini:own:view"
	RapportiniOwnCreate Permission = "rapportini:own:create"
	RapportiniOwnUpdate Permission = "rapportini:own:update"
	RapportiniOwnDelete Permission = "rapportini:own:delete"

	// Rapportini - all (other users' reports)
	RapportiniAllView   Permission = "rapportini:all:view"
	RapportiniAllCreate Permission = "rapportini:all:create"
	RapportiniAllUpdate Permission = "rapportini:all:update"
	RapportiniAllDelete Permission = "rapportini:all:delete"

	// Commesse (projects)
	CommesseView   Permission = "commesse:view"
	CommesseCreate Permission = "commesse:create"
	CommesseUpdate Permission = "commesse:update"
	CommesseDelete Permission = "commesse:delete"

	// Clienti (clients)
	ClientiView   Permission = "clienti:view"
	ClientiCreate Permission = "clienti:create"
	ClientiUpdate Permission = "clienti:update"
	ClientiDelete Permission = "clienti:delete"

	// Fornitori (suppliers)
	FornitoriView   Permission = "fornitori:view"
	FornitoriCreate Permission = "fornitori:create"
	FornitoriUpdate Permission = "fornitori:update"
	FornitoriDelete Permission = "fornitori:delete"

	// Fatture (invoices)
	FattureView   Permission = "fatture:view"
	FattureCreate Permission = "fatture:create"
	FattureUpdate Permission = "fatture:update"
	FattureDelete Permission = "fatture:delete"

	// Costi (costs)
	CostiView   Permission = "costi:view"
	CostiCreate Permission = "costi:create"
	CostiUpdate Permission = "costi:update"
	CostiDelete Permission = "costi:delete"

	// Tenant profile / settings
	TenantView   Permission = "tenant:view"
	TenantUpdate Permission = "tenant:update"

	// Billing & subscription
	BillingView   Permission = "billing:view"
	BillingUpdate Permission = "billing:update"

	// Critical operations (owner only)
	TenantDelete   Permission = "tenant:delete"
	TenantTransfer Permission = "tenant:transfer"
	PlanChange     Permission = "plan:change"
)
