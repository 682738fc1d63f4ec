// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Besides server settings it carries the
// custom container specs seeded into the catalog at startup.
package config
