// Package config loads, normalizes, and validates ytscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and overlays deployment environment variables
// such as PORT, MAKE_WEBHOOK_URL, and the WHISPER_* tuning knobs. A .env file
// in the working directory is honoured for local development. The Config type
// centralizes every knob the server and CLI need so the downloader,
// transcriber, and webhook settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
