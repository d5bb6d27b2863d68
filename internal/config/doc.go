// Package config loads, normalizes, and validates splitplan configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/splitplan/config.toml or a
// project-local splitplan.toml. The Config type centralizes the state
// directory, artifact filenames, naming limits, and logging knobs so every
// command resolves them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and canonical log formats.
package config
