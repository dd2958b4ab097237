package roles

import "github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"

// EffectiveRole is the resolved role of one tenant membership. Exactly one
// of the two variants is populated: Custom when the membership references a
// custom role, Legacy otherwise. Callers go through EffectiveKey instead of
// null-coalescing the join result at every call site.
type EffectiveRole struct {
	Legacy permissions.TenantRole
	Custom *CustomRole
}

// Resolve builds the effective role for a membership given its legacy role
// column and the optionally joined custom role row.
func Resolve(legacy permissions.TenantRole, custom *CustomRole) EffectiveRole {
	return EffectiveRole{Legacy: legacy, Custom: custom}
}

// EffectiveKey returns the role key used for area routing and permission
// checks: the custom role's system key when present, the legacy role
// string otherwise. A custom role without a system key (a fully
// tenant-authored role) falls back to the legacy column so that old call
// sites keep working.
func (e EffectiveRole) EffectiveKey() string {
	if e.Custom != nil && e.Custom.SystemKey != nil {
		return string(*e.Custom.SystemKey)
	}
	return string(e.Legacy)
}

// IsCustom reports whether the membership's privilege comes from a custom
// role rather than the legacy column.
func (e EffectiveRole) IsCustom() bool {
	return e.Custom != nil
}

// IsRestrictedField reports whether the effective role belongs to the
// mobile-only field worker area (dipendente on the custom scale, operaio
// on the legacy one).
func (e EffectiveRole) IsRestrictedField() bool {
	return permissions.IsRestrictedFieldKey(e.EffectiveKey())
}

// TableRole maps the effective key onto the legacy permission table. Keys
// that are not in either vocabulary resolve to an unknown role, which the
// table treats as zero privilege.
func (e EffectiveRole) TableRole() permissions.TenantRole {
	if e.Custom != nil && e.Custom.SystemKey != nil {
		if role, ok := permissions.LegacyRoleForSystemKey(*e.Custom.SystemKey); ok {
			return role
		}
	}
	return e.Legacy
}
