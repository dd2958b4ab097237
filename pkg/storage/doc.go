// Package storage manages the PostgreSQL and Redis connections.
//
// The ConnectionManager holds one primary plus optional read replicas;
// services take *sql.DB, so the caller decides which side of the pool
// each service reads from. Redis backs the distributed rate limiter
// and is optional: when unconfigured or unreachable the middleware
// falls back to per-process limiters.
package storage
