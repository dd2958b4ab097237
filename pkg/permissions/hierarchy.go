package permissions

// The codebase carries TWO role orderings that were never reconciled in the
// data model: the generic scale used by Can (viewer < member < admin <
// owner) and the operational scale used for the construction roles
// (dipendente < admin_readonly < admin < owner). They overlap on admin and
// owner but disagree everywhere else, so they are modeled as two separate
// total orders rather than one merged enum. New code should prefer the
// permission table; the orderings exist for minimum-role gates.

// genericLevels is the legacy ordering used by Can.
var genericLevels = map[TenantRole]int{
	RoleViewer: 0,
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// Can reports whether role meets the minimum role min on the generic
// scale. Roles absent from the scale (including the operational roles)
// rank as zero privilege.
func Can(role, min TenantRole) bool {
	return genericLevels[role] >= genericLevels[min]
}

// OperationalLevel ranks the construction-specific role keys. It is
// deliberately indexed by SystemRoleKey, not TenantRole: the two scales
// must not be compared against each other.
func OperationalLevel(key SystemRoleKey) int {
	switch key {
	case SystemRoleDipendente:
		return 0
	case SystemRoleAdminReadonly:
		return 1
	case SystemRoleAdmin:
		return 2
	case SystemRoleOwner:
		return 3
	default:
		return -1
	}
}

// CanOperational reports whether key meets the minimum operational role.
// Unknown keys rank below every known role.
func CanOperational(key, min SystemRoleKey) bool {
	return OperationalLevel(key) >= OperationalLevel(min)
}

// LegacyRoleForSystemKey maps a system role key onto the legacy role
// column's vocabulary. This is the only sanctioned bridge between the two
// scales; note that dipendente maps to operaio, not member.
func LegacyRoleForSystemKey(key SystemRoleKey) (TenantRole, bool) {
	switch key {
	case SystemRoleOwner:
		return RoleOwner, true
	case SystemRoleAdmin:
		return RoleAdmin, true
	case SystemRoleAdminReadonly:
		return RoleAdminReadonly, true
	case SystemRoleDipendente:
		return RoleOperaio, true
	default:
		return "", false
	}
}

// IsRestrictedFieldKey reports whether an effective role key belongs to
// the mobile-only field worker area.
func IsRestrictedFieldKey(key string) bool {
	return key == string(SystemRoleDipendente) || key == string(RoleOperaio)
}
