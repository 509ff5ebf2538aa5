// Package config loads, normalizes, and validates the TOML configuration
// file that drives recording runs.
package config
