// Package history persists per-video run outcomes in a local SQLite database
// so past runs can be reviewed with the history command. Recording is
// best-effort: a broken history database never fails a run.
package history
