// Package config loads the relay configuration from an optional YAML file,
// fills defaults, applies environment overrides and validates the result.
package config
