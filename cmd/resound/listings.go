package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"resound/internal/audio"
	"resound/internal/config"
	"resound/internal/services/ffmpeg"
)

// listDurations prints a duration table for the MP3 files in dir, plus a
// total row, probing each file through the engine.
func listDurations(cmd *cobra.Command, cfg *config.Config, dir, sortBy string) error {
	candidates, err := audio.Discover(dir)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No MP3 files found in %s\n", dir)
		return nil
	}

	switch sortBy {
	case "", "name":
		// Discovery order is already lexical.
	case "date":
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].ModTime.Before(candidates[j].ModTime)
		})
	default:
		return fmt.Errorf("list-audio-sort: unknown order %q (want name or date)", sortBy)
	}

	prober := &ffmpeg.Client{
		FFmpegBinary:  cfg.FFmpegBinary(),
		FFprobeBinary: cfg.FFprobeBinary(),
	}

	var total time.Duration
	rows := make([][]string, 0, len(candidates)+1)
	for _, candidate := range candidates {
		duration, err := prober.Duration(cmd.Context(), candidate.Path)
		if err != nil {
			return err
		}
		total += duration
		rows = append(rows, []string{
			candidate.Name(),
			audio.FormatOffset(duration),
			fmt.Sprintf("%.2fs", duration.Seconds()),
		})
	}
	rows = append(rows, []string{"Total", audio.FormatOffset(total), fmt.Sprintf("%.2fs", total.Seconds())})

	table := renderTable(
		[]string{"File", "Length", "Seconds"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	)
	fmt.Fprintln(cmd.OutOrStdout(), table)
	return nil
}
