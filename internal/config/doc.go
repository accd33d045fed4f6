// Package config loads, normalizes, and validates trmnl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRMNL_LLM_API_KEY, including values from a .env file next to the config.
// The Config type centralizes every knob the daemon and CLI need, so the
// content cache, working slot, dataset, and remote model settings are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
