// Package logging builds the slog loggers the CLI uses: a human-readable
// console handler and a JSON handler, optionally teed into a log file under
// the configured log directory.
package logging
