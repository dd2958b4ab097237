package permissions

// rolePermissions is the single source of truth for what each legacy role
// may do. A role missing from the table, or a permission missing from a
// role's set, means denied. There is no implicit allow anywhere.
var rolePermissions = map[TenantRole][]Permission{
	// OWNER: full access including critical operations
	RoleOwner: {
		UsersView, UsersCreate, UsersUpdate, UsersDelete,

		RapportiniOwnView, RapportiniOwnCreate, RapportiniOwnUpdate, RapportiniOwnDelete,
		RapportiniAllView, RapportiniAllCreate, RapportiniAllUpdate, RapportiniAllDelete,

		CommesseView, CommesseCreate, CommesseUpdate, CommesseDelete,

		ClientiView, ClientiCreate, ClientiUpdate, ClientiDelete,

		FornitoriView, FornitoriCreate, FornitoriUpdate, FornitoriDelete,

		FattureView, FattureCreate, FattureUpdate, FattureDelete,

		CostiView, CostiCreate, CostiUpdate, CostiDelete,

		TenantView, TenantUpdate,

		BillingView, BillingUpdate,

		TenantDelete, TenantTransfer, PlanChange,
	},

	// ADMIN: full read/write except critical operations
	RoleAdmin: {
		UsersView, UsersCreate, UsersUpdate, UsersDelete,

		RapportiniOwnView, RapportiniOwnCreate, RapportiniOwnUpdate, RapportiniOwnDelete,
		RapportiniAllView, RapportiniAllCreate, RapportiniAllUpdate, RapportiniAllDelete,

		CommesseView, CommesseCreate, CommesseUpdate, CommesseDelete,

		ClientiView, ClientiCreate, ClientiUpdate, ClientiDelete,

		FornitoriView, FornitoriCreate, FornitoriUpdate, FornitoriDelete,

		FattureView, FattureCreate, FattureUpdate, FattureDelete,

		CostiView, CostiCreate, CostiUpdate, CostiDelete,

		TenantView, TenantUpdate,

		BillingView, BillingUpdate,
	},

	// ADMIN_READONLY: full read access, zero writes
	RoleAdminReadonly: {
		UsersView,
		RapportiniOwnView, RapportiniAllView,
		CommesseView,
		ClientiView,
		FornitoriView,
		FattureView,
		CostiView,
		TenantView,
		BillingView,
	},

	// OPERAIO: own rapportini, plus commesse read to pick one
	RoleOperaio: {
		RapportiniOwnView, RapportiniOwnCreate, RapportiniOwnUpdate, RapportiniOwnDelete,
		CommesseView,
	},

	// BILLING_MANAGER: invoices and costs, read-only counterparties
	RoleBillingManager: {
		FattureView, FattureCreate, FattureUpdate, FattureDelete,
		CostiView, CostiCreate, CostiUpdate, CostiDelete,
		ClientiView,
		FornitoriView,
		BillingView, BillingUpdate,
	},

	// Legacy roles, minimal grants kept for old memberships
	RoleMember: {
		RapportiniOwnView,
		CommesseView,
	},
	RoleViewer: {
		CommesseView,
		ClientiView,
		RapportiniAllView,
	},
}

// PermissionsFor returns all permissions granted to a role. Unknown roles
// get an empty set.
func PermissionsFor(role TenantRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
