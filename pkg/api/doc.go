// Package api assembles the HTTP surface: account lifecycle, tenant
// profile and onboarding, membership and invitation management, custom
// roles, the user directory and time reports. Handler groups register
// their routes behind the authorization wrappers; the server wires the
// ambient middleware chain around the router.
package api
