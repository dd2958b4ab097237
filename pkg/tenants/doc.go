// Package tenants implements tenant accounts, their onboarding
// profiles, and the user_tenants membership relation.
//
// The central operation is membership resolution: given a user ID, find
// the membership that defines "the user's tenant". A user can hold
// several memberships; the current one is always the most recently
// created row, with no explicit selection mechanism. Resolution returns
// a three-state Resolution so callers can tell a user with no tenant
// apart from a database that could not answer: the first is routed to
// account recovery, the second must never be.
//
// The package also carries the signup provisioning chain (identity user,
// tenant, owner membership, profile) with compensating rollback, and
// invitation-based member onboarding with scheduled expiry cleanup.
package tenants
