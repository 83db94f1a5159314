package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resound/internal/audio"
	"resound/internal/config"
	"resound/internal/deps"
	"resound/internal/history"
	"resound/internal/replace"
	"resound/internal/services"
	"resound/internal/services/ffmpeg"
)

func runRoot(cmd *cobra.Command, cmdCtx *commandContext, flags *runFlags) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}

	if err := checkEngineBinaries(); err != nil {
		return err
	}

	switch {
	case flags.listAudioLengths:
		return listDurations(cmd, cfg, cfg.Paths.AudioDir, flags.listAudioSort)
	case flags.listAudioInputLengths:
		return listDurations(cmd, cfg, cfg.Paths.AudioInputDir, flags.listAudioSort)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unlock, err := acquireRunLock(cfg)
	if err != nil {
		return err
	}
	defer unlock()

	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}

	engine := newEngine(cfg, logger)
	combiner := &audio.Combiner{
		InputDir:  cfg.Paths.AudioInputDir,
		OutputDir: cfg.Paths.AudioDir,
		Engine:    engine,
		Logger:    logger.With("component", "combiner"),
	}
	shuffle := flags.shuffle || cfg.Combine.Shuffle

	if flags.combineOnly {
		path, err := combiner.Combine(ctx, shuffle)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Combined audio written to %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Tracklist written to %s\n", strings.TrimSuffix(path, ".mp3")+".txt")
		return nil
	}

	policy, err := audio.ParsePolicy(flags.audioPick)
	if err != nil {
		return err
	}
	resolver := &audio.Resolver{
		AudioDir: cfg.Paths.AudioDir,
		Combiner: combiner,
		Logger:   logger.With("component", "resolver"),
	}
	audioPath, err := resolver.Resolve(ctx, audio.Selection{
		ExplicitFile: flags.audioFile,
		Policy:       policy,
		Name:         flags.audioName,
		Shuffle:      shuffle,
	}, flags.forceCombine)
	if err != nil {
		return err
	}
	logger.Info("resolved audio source", "component", "resolver", "path", audioPath)

	videos, err := collectVideos(cfg, flags.videoInput)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		return fmt.Errorf("no video files found in %s", cfg.Paths.VideoDir)
	}

	suffix := flags.suffix
	if suffix == "" {
		suffix = cfg.Output.Suffix
	}
	codec := flags.audioCodec
	if codec == "" {
		codec = cfg.Output.AudioCodec
	}

	runner := &replace.Runner{
		Replacer: &replace.Replacer{
			Engine:        engine,
			Suffix:        suffix,
			CodecOverride: codec,
			InPlace:       flags.inPlace,
			Overwrite:     flags.overwrite || cfg.Output.Overwrite,
			Logger:        logger.With("component", "replacer"),
		},
		Logger: logger.With("component", "replacer"),
	}

	results, err := runner.Run(ctx, videos, audioPath)
	if err != nil {
		return err
	}

	recordHistory(ctx, cfg, logger, results, audioPath)
	printResults(cmd, results)

	if failed := replace.Failed(results); failed > 0 {
		return fmt.Errorf("%d of %d video(s) failed", failed, len(results))
	}
	return ctx.Err()
}

func newEngine(cfg *config.Config, logger *slog.Logger) *ffmpeg.Client {
	return &ffmpeg.Client{
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
		Logger:        logger,
	}
}

func checkEngineBinaries() error {
	statuses := deps.CheckBinaries(deps.Default())
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required tools: %s (see `resound deps`)", strings.Join(missing, ", "))
	}
	return nil
}

// acquireRunLock serializes runs that would otherwise race over the audio
// folder and output files.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lock := flock.New(filepath.Join(cfg.Paths.LogDir, "resound.lock"))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("another resound run is active (lock: %s)", lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}

func collectVideos(cfg *config.Config, videoInput string) ([]string, error) {
	if strings.TrimSpace(videoInput) == "" {
		return replace.DiscoverVideos(cfg.Paths.VideoDir)
	}

	path, err := config.ExpandPath(videoInput)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspect video input %q: %w", path, err)
	}
	if info.IsDir() {
		return replace.DiscoverVideos(path)
	}
	return []string{path}, nil
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, results []replace.Result, audioPath string) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history unavailable", "error", err)
		return
	}
	defer store.Close()

	runID := uuid.NewString()
	for _, result := range results {
		record := history.Record{
			RunID:     runID,
			VideoPath: result.VideoPath,
			AudioPath: audioPath,
			Elapsed:   result.Elapsed,
			CreatedAt: time.Now().UTC(),
		}
		if result.Err != nil {
			record.Status = history.StatusFailed
			record.Reason = services.Reason(result.Err)
			record.Detail = result.Err.Error()
		} else {
			record.Status = history.StatusCompleted
			record.OutputPath = result.OutputPath
		}
		if err := store.Append(ctx, record); err != nil {
			logger.Warn("history append failed", "error", err)
			return
		}
	}
}

func printResults(cmd *cobra.Command, results []replace.Result) {
	out := cmd.OutOrStdout()
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(out, "failed  %s: %v\n", result.VideoPath, result.Err)
			continue
		}
		fmt.Fprintf(out, "done    %s -> %s\n", result.VideoPath, result.OutputPath)
	}
}
