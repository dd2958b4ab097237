// Package audit records security-relevant events: authorization
// denials, membership and role changes, invitation lifecycle, and
// mutating HTTP requests.
//
// Events can be written to Postgres (DBLogger), to a rotating JSON
// lines file (FileLogger), or to both (MultiLogger). The HTTP
// middleware attaches the configured logger to every request context
// so handlers can emit domain events without plumbing a dependency,
// and captures mutations and denials on its own. Querying and export
// go through Store; the bundled handlers scope every query to the
// caller's tenant.
package audit
