// Package replace implements the track replacer: duration arithmetic,
// container-to-codec mapping, output naming, and the sequential multi-video
// run loop with per-video failure isolation.
package replace
