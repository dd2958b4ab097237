// Package middleware provides HTTP middleware for request
// authorization and rate limiting.
//
// # Overview
//
// The Authorizer is the request authorization wrapper: it
// authenticates the caller, resolves the tenant membership on every
// request, and attaches the auth.Context before the handler runs.
//
// # Middleware Components
//
// Authorizer: per-request authentication + tenant resolution
//
//	a := middleware.NewAuthorizer(provider, tenantService, logger, metrics)
//	mux.Handle("/api/rapportini", a.WithAuth(rapportiniHandler))
//	mux.Handle("/api/utenti", a.WithAdminAuth(utentiHandler))
//
// Status codes are part of the API contract:
//
//	401 "Not authenticated"                    no valid credentials
//	404 "No tenant found"                      no membership (or resolution failure)
//	403 "User is inactive"                     deactivated membership
//	403 "Unauthorized - Admin access required" admin gate (legacy role only)
//	500 "Internal server error"                handler panic
//
// RateLimitMiddleware: In-memory rate limiting
//
//	router.Use(middleware.NewRateLimitMiddleware().Handler)
//
// DistributedRateLimitMiddleware: Redis-backed rate limiting
//
//	router.Use(middleware.NewDistributedRateLimitMiddleware(redisClient).Handler)
//
// # Rate Limiting
//
// Default (Anonymous): 100 req/min, 10 burst
// Per-User: 1000 req/min, 50 burst
// Mobile (field workers): 300 req/min, 100 burst
//
// # Related Packages
//
//   - pkg/auth: the per-request authorization context
//   - pkg/tenants: membership resolution
//   - pkg/identity: request authentication
package middleware
