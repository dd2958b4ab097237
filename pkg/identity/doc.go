// Package identity authenticates requests against an OpenID Connect
// issuer and exposes the small slice of the provider's admin API that
// account provisioning needs.
//
// Authentication answers only "who is calling": the returned User
// carries no tenant or role information. Verified tokens are cached
// briefly; tenant membership and permissions are resolved fresh on
// every request by the authorization layer.
package identity
