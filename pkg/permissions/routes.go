package permissions

// AccessibleRoutes returns the dashboard routes a role may open. Every
// role can reach the dashboard root; everything else follows the table.
func AccessibleRoutes(role TenantRole) []string {
	routes := []string{"/dashboard"}

	if HasPermission(role, UsersView) {
		routes = append(routes, "/dashboard/utenti-ruoli")
	}
	if HasAnyPermission(role, RapportiniOwnView, RapportiniAllView) {
		routes = append(routes, "/dashboard/rapportini")
	}
	if HasPermission(role, CommesseView) {
		routes = append(routes, "/dashboard/commesse")
	}
	if HasPermission(role, ClientiView) {
		routes = append(routes, "/dashboard/clienti")
	}
	if HasPermission(role, FornitoriView) {
		routes = append(routes, "/dashboard/fornitori")
	}
	if HasPermission(role, FattureView) {
		routes = append(routes, "/dashboard/fatture")
	}
	if HasPermission(role, CostiView) {
		routes = append(routes, "/dashboard/costi")
	}
	if HasPermission(role, TenantView) {
		routes = append(routes, "/dashboard/impostazioni")
	}
	if HasPermission(role, BillingView) {
		routes = append(routes, "/dashboard/fatturazione")
	}

	return routes
}

// CanAccessRoute reports whether role may open route or anything under it.
func CanAccessRoute(role TenantRole, route string) bool {
	for _, r := range AccessibleRoutes(role) {
		if len(route) >= len(r) && route[:len(r)] == r {
			return true
		}
	}
	return false
}
