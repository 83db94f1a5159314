package replace

import (
	"context"
	"log/slog"
	"time"
)

// Result is the per-video outcome of one run.
type Result struct {
	VideoPath  string
	OutputPath string
	Elapsed    time.Duration
	Err        error
}

// Runner executes the replacement sequentially over a set of videos with the
// one resolved audio source. Per-video failures are recorded and the run
// proceeds; only a failed audio probe (nothing could proceed) aborts.
type Runner struct {
	Replacer *Replacer
	Logger   *slog.Logger
}

// Run probes the audio source once, then replaces each video's track in turn.
func (r *Runner) Run(ctx context.Context, videoPaths []string, audioPath string) ([]Result, error) {
	audioDuration, err := r.Replacer.Engine.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(videoPaths))
	for _, videoPath := range videoPaths {
		if ctx.Err() != nil {
			break
		}
		started := time.Now()
		outputPath, err := r.Replacer.Replace(ctx, videoPath, audioPath, audioDuration)
		result := Result{
			VideoPath:  videoPath,
			OutputPath: outputPath,
			Elapsed:    time.Since(started),
			Err:        err,
		}
		if err != nil && r.Logger != nil {
			r.Logger.Error("video failed", "video", videoPath, "error", err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	count := 0
	for _, result := range results {
		if result.Err != nil {
			count++
		}
	}
	return count
}
