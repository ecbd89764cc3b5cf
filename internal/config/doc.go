// Package config loads, normalizes, and validates cdjready configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// CDJREADY_PROFILE. Always obtain settings through this package so downstream
// code receives clamped worker counts, canonical log formats, and clear
// validation errors.
package config
