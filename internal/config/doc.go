// Package config loads, normalizes, and validates resound configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI needs: the video/audio/audio-input folder layout, output naming, combine
// behavior, run-history storage, and log settings.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
