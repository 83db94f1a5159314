package ffmpeg

import (
	"context"
	"time"
)

// Prober obtains a media file's runtime.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Concatenator merges MP3 fragments into a single encoded file.
type Concatenator interface {
	Concat(ctx context.Context, inputs []string, output string) error
}

// Muxer writes a new video containing the original video streams and a
// replacement audio track.
type Muxer interface {
	Mux(ctx context.Context, spec MuxSpec) error
}

// Engine bundles every external capability the pipeline needs. The run loop
// blocks on each invocation; there is no parallelism across calls.
type Engine interface {
	Prober
	Concatenator
	Muxer
}

// MuxSpec describes one replacement invocation.
type MuxSpec struct {
	VideoPath  string
	AudioPath  string
	OutputPath string
	// AudioCodec is passed to the engine verbatim (aac, opus, mp3, ...).
	AudioCodec string
	// AudioLoops is how many extra times the audio input repeats before the
	// trim; 0 plays the source once.
	AudioLoops int
	// TargetDuration trims the output to the video's runtime.
	TargetDuration time.Duration
}
