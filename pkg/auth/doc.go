// Package auth defines the per-request authorization context: the
// authenticated user joined with their resolved tenant membership and
// effective role.
//
// The context is assembled from scratch on every request by the
// authorization wrapper in pkg/middleware. Nothing here is cached or
// persisted: a role change in the database takes effect on the next
// request, at the cost of a membership read per call.
package auth
