// Package config handles configuration management for xmvnconf.
// It layers embedded defaults, an optional .xmvnconf.toml in the work
// directory, an explicit config file, XMVNCONF_* environment variables and
// command-line overrides, later layers winning.
package config
