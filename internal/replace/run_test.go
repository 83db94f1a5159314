package replace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"resound/internal/services"
)

func TestRunIsolatesPerVideoFailures(t *testing.T) {
	engine := &fakeEngine{
		durations: map[string]time.Duration{"track.mp3": 130 * time.Second},
		probeErr: map[string]error{
			"corrupt.mp4": services.Wrap(services.ErrProbe, "ffmpeg", "probe", "corrupt.mp4", nil),
		},
	}
	dir := t.TempDir()
	good := writeVideo(t, dir, "good.mp4")
	corrupt := writeVideo(t, dir, "corrupt.mp4")

	runner := &Runner{Replacer: &Replacer{Engine: engine, Suffix: "_newaudio"}}
	results, err := runner.Run(context.Background(), []string{good, corrupt}, "/a/track.mp3")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("good video failed: %v", results[0].Err)
	}
	if filepath.Base(results[0].OutputPath) != "good_newaudio.mp4" {
		t.Fatalf("unexpected output: %s", results[0].OutputPath)
	}
	if !errors.Is(results[1].Err, services.ErrProbe) {
		t.Fatalf("corrupt video error = %v", results[1].Err)
	}
	if Failed(results) != 1 {
		t.Fatalf("Failed = %d, want 1", Failed(results))
	}
}

func TestRunAbortsWhenAudioProbeFails(t *testing.T) {
	engine := &fakeEngine{probeErr: map[string]error{
		"track.mp3": services.Wrap(services.ErrProbe, "ffmpeg", "probe", "track.mp3", nil),
	}}
	video := writeVideo(t, t.TempDir(), "clip.mp4")

	runner := &Runner{Replacer: &Replacer{Engine: engine, Suffix: "_newaudio"}}
	_, err := runner.Run(context.Background(), []string{video}, "/a/track.mp3")
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected audio probe failure, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	engine := &fakeEngine{}
	dir := t.TempDir()
	videos := []string{writeVideo(t, dir, "a.mp4"), writeVideo(t, dir, "b.mp4")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := &Runner{Replacer: &Replacer{Engine: engine, Suffix: "_x"}}
	results, err := runner.Run(ctx, videos, "/a/track.mp3")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("cancelled run should process nothing, got %d results", len(results))
	}
}
