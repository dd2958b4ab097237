// Package permissions holds the static role/permission table and the pure
// lookup functions built on it.
//
// The table is data, not behavior: a missing (role, permission) pair is a
// valid "denied" state, never an error. All functions here are
// deterministic and side-effect free, which is what lets the request
// wrapper and the edge routing guard re-evaluate them on every request
// without a cache.
package permissions
