// Package services defines the error taxonomy shared by the resolver,
// combiner, and replacer, plus clients for the external tools they drive.
//
// Errors are classified by wrapping sentinel markers so callers can decide
// between aborting the run (no audio at all) and recording a per-video
// failure (probe errors, unsupported containers, engine exits).
package services
