package permissions

// HasPermission reports whether role is granted perm by the static table.
// Deterministic, side-effect free; an unknown role has no permissions.
func HasPermission(role TenantRole, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every permission in perms.
func HasAllPermissions(role TenantRole, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// HasAnyPermission reports whether role holds at least one of perms.
func HasAnyPermission(role TenantRole, perms ...Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// IsFullAccessRole reports whether role is owner or admin.
func IsFullAccessRole(role TenantRole) bool {
	return role == RoleOwner || role == RoleAdmin
}

// IsReadOnlyRole reports whether role may never write.
func IsReadOnlyRole(role TenantRole) bool {
	return role == RoleAdminReadonly
}

// CanManageUsers reports whether role can create users in its tenant.
func CanManageUsers(role TenantRole) bool {
	return HasPermission(role, UsersCreate)
}

// CanAccessBilling reports whether role can see the billing area.
func CanAccessBilling(role TenantRole) bool {
	return HasPermission(role, BillingView)
}

// CanPerformCriticalOps reports whether role can run owner-only operations.
func CanPerformCriticalOps(role TenantRole) bool {
	return HasPermission(role, TenantDelete)
}

// CanViewRapportino reports whether a caller may view a specific time
// report. "all" grants win; "own" grants require ownership.
func CanViewRapportino(role TenantRole, userID, reportUserID string) bool {
	if HasPermission(role, RapportiniAllView) {
		return true
	}
	return HasPermission(role, RapportiniOwnView) && userID == reportUserID
}

// CanEditRapportino reports whether a caller may update a specific time
// report.
func CanEditRapportino(role TenantRole, userID, reportUserID string) bool {
	if HasPermission(role, RapportiniAllUpdate) {
		return true
	}
	return HasPermission(role, RapportiniOwnUpdate) && userID == reportUserID
}

// CanDeleteRapportino reports whether a caller may delete a specific time
// report.
func CanDeleteRapportino(role TenantRole, userID, reportUserID string) bool {
	if HasPermission(role, RapportiniAllDelete) {
		return true
	}
	return HasPermission(role, RapportiniOwnDelete) && userID == reportUserID
}
