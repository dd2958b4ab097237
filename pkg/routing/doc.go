// Package routing implements the navigation guard that runs ahead of
// page rendering.
//
// The guard watches a fixed set of page prefixes (the administrative
// dashboard, onboarding, the auth pages, the mobile area) and issues
// redirects: unauthenticated callers to /sign-in, callers with broken
// tenant data to /account-recovery, field workers into /mobile,
// everyone else out of it, and tenants with unfinished onboarding into
// /onboarding/step-1.
//
// The decision itself is Decide, a pure function over a snapshot of
// (identity, membership, profile, path); the middleware only gathers
// the snapshot and translates the outcome into an HTTP redirect.
package routing
