// Package config loads, normalizes, and validates auxl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as AUXL_NTFY_TOPIC. The Config type
// centralizes every knob the CLI needs so state, log and session directories
// are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
