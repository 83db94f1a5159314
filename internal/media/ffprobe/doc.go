// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no resound-specific dependencies and could be extracted
// as a standalone library. Inspect executes ffprobe and returns a parsed
// Result; helper methods expose stream counts and duration parsing with a
// stream-level fallback for containers that omit a format duration.
package ffprobe
