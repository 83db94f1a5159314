package main

import (
	"github.com/spf13/cobra"
)

// runFlags carries the root command's selection and output options.
type runFlags struct {
	listAudioLengths      bool
	listAudioInputLengths bool
	listAudioSort         string
	combineOnly           bool
	forceCombine          bool
	shuffle               bool
	audioFile             string
	audioPick             string
	audioName             string
	videoInput            string
	inPlace               bool
	audioCodec            string
	suffix                string
	overwrite             bool
}

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "resound",
		Short: "Replace video audio tracks with an MP3 source",
		Long: "resound replaces each video's audio track with an MP3 resolved from the\n" +
			"audio folder (or combined from audio-input fragments), copying video\n" +
			"streams without re-encoding.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().BoolVar(&flags.listAudioLengths, "list-audio-lengths", false, "List durations of MP3 files in the audio folder and exit")
	rootCmd.Flags().BoolVar(&flags.listAudioInputLengths, "list-audio-input-lengths", false, "List durations of MP3 files in the audio-input folder and exit")
	rootCmd.Flags().StringVar(&flags.listAudioSort, "list-audio-sort", "name", "Listing order: name or date")
	rootCmd.Flags().BoolVar(&flags.combineOnly, "combine-only", false, "Combine audio-input fragments into the audio folder and exit")
	rootCmd.Flags().BoolVar(&flags.forceCombine, "combine", false, "Combine a fresh audio file even when the audio folder has one")
	rootCmd.Flags().BoolVar(&flags.shuffle, "shuffle-audio-input", false, "Shuffle the non-prefixed fragments when combining")
	rootCmd.Flags().StringVar(&flags.audioFile, "audio-file", "", "Explicit MP3 file to use as the audio source")
	rootCmd.Flags().StringVar(&flags.audioPick, "audio-pick", "", "Pick from the audio folder: latest, oldest, or name")
	rootCmd.Flags().StringVar(&flags.audioName, "audio-name", "", "MP3 name to match when --audio-pick name (extension optional)")
	rootCmd.Flags().StringVar(&flags.videoInput, "video-input", "", "Video file or directory to process (default: the video folder)")
	rootCmd.Flags().BoolVar(&flags.inPlace, "in-place", false, "Atomically replace source videos with the processed output")
	rootCmd.Flags().StringVar(&flags.audioCodec, "audio-codec", "", "Audio codec for the output (default: derived from the container)")
	rootCmd.Flags().StringVar(&flags.suffix, "suffix", "", "Output filename suffix when not in place (default from config)")
	rootCmd.Flags().BoolVar(&flags.overwrite, "overwrite", false, "Allow clobbering an existing output file")

	rootCmd.AddCommand(newCombineCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
