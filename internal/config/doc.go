// Package config loads and validates the adapter configuration from YAML.
//
// Files may reference environment variables with ${VAR} syntax; they are
// expanded before parsing.
package config
