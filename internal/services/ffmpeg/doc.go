// Package ffmpeg is the client for the external media engine.
//
// The core logic never shells out directly; it consumes the Prober,
// Concatenator, and Muxer capabilities so tests can substitute fakes. Client
// is the real implementation, invoking ffprobe for durations and ffmpeg for
// concatenation and stream-copy muxing, one blocking process at a time.
package ffmpeg
