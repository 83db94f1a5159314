package main

import (
	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var sortBy string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List MP3 durations in the audio folders",
	}
	listCmd.PersistentFlags().StringVar(&sortBy, "sort", "name", "Listing order: name or date")

	listCmd.AddCommand(&cobra.Command{
		Use:   "audio",
		Short: "List durations of MP3 files in the audio folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return listDurations(cmd, cfg, cfg.Paths.AudioDir, sortBy)
		},
	})
	listCmd.AddCommand(&cobra.Command{
		Use:   "input",
		Short: "List durations of MP3 files in the audio-input folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return listDurations(cmd, cfg, cfg.Paths.AudioInputDir, sortBy)
		},
	})

	return listCmd
}
