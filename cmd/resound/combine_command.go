package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"resound/internal/audio"
)

func newCombineCommand(ctx *commandContext) *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Combine audio-input fragments into one MP3 with a tracklist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := checkEngineBinaries(); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			unlock, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer unlock()

			combiner := &audio.Combiner{
				InputDir:  cfg.Paths.AudioInputDir,
				OutputDir: cfg.Paths.AudioDir,
				Engine:    newEngine(cfg, logger),
				Logger:    logger.With("component", "combiner"),
			}

			path, err := combiner.Combine(runCtx, shuffle || cfg.Combine.Shuffle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Combined audio written to %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Tracklist written to %s\n", strings.TrimSuffix(path, ".mp3")+".txt")
			return nil
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the non-prefixed fragments")
	return cmd
}
