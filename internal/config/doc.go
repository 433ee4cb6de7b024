// Package config loads, normalizes, and validates eyetrack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// EYETRACK_OWNER. The Config type centralizes the directory layout shared with
// the processing facility, the identity used for new jobs, and the knobs that
// govern output discovery, locking, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
