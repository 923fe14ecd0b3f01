// Package config loads, normalizes, and validates fluids configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FLUIDS_BASE_URL. The Config value is built once at startup and passed into
// the catalogue, request, transport and history components; nothing reads
// settings from package-level state.
package config
