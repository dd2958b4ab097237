// Package config loads application configuration.
//
// Configuration layers, later wins:
//
//  1. built-in defaults
//  2. the YAML file named by APPTVN_CONFIG_FILE, if set
//  3. APPTVN_* environment variables
//
// The service refuses to start without a Postgres URL and the identity
// provider's issuer URL and client ID. The identity admin endpoint is
// optional; configuring it requires the matching service key, since
// signup provisioning cannot call it unauthenticated.
package config
