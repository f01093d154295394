// Package config loads backoffice service configuration from an optional
// YAML file and BACKOFFICE_* environment variables. Environment variables
// take precedence over file values, which take precedence over built-in
// defaults.
package config
