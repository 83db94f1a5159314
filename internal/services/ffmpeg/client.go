package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"resound/internal/media/ffprobe"
	"resound/internal/services"
)

// Client drives the ffmpeg and ffprobe binaries. Zero values for the binary
// names fall back to PATH lookup of "ffmpeg"/"ffprobe".
type Client struct {
	FFmpegBinary  string
	FFprobeBinary string
	Logger        *slog.Logger
}

var _ Engine = (*Client)(nil)

// Duration probes the file's runtime via ffprobe.
func (c *Client) Duration(ctx context.Context, path string) (time.Duration, error) {
	result, err := ffprobe.Inspect(ctx, c.FFprobeBinary, path)
	if err != nil {
		return 0, services.Wrap(services.ErrProbe, "ffmpeg", "probe", path, err)
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, services.Wrap(services.ErrProbe, "ffmpeg", "probe", fmt.Sprintf("%s: no usable duration", path), nil)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Concat merges the inputs, in order, into a single MP3 at output using the
// concat demuxer. The caller owns temp-then-rename discipline for output.
func (c *Client) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return services.Wrap(services.ErrNoInputAudio, "ffmpeg", "concat", "no inputs", nil)
	}

	listDir, err := os.MkdirTemp("", "resound-concat-")
	if err != nil {
		return fmt.Errorf("concat list dir: %w", err)
	}
	defer os.RemoveAll(listDir)

	listPath := filepath.Join(listDir, "concat.txt")
	var list strings.Builder
	for _, input := range inputs {
		list.WriteString(concatEntry(input))
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := []string{
		"-hide_banner", "-nostdin", "-v", "error", "-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c:a", "libmp3lame", "-q:a", "2",
		output,
	}
	return c.run(ctx, "concat", args)
}

// Mux copies the video streams and attaches the prepared audio track.
func (c *Client) Mux(ctx context.Context, spec MuxSpec) error {
	return c.run(ctx, "mux", muxArgs(spec))
}

func muxArgs(spec MuxSpec) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-v", "error", "-y",
		"-i", spec.VideoPath,
	}
	if spec.AudioLoops > 0 {
		args = append(args, "-stream_loop", strconv.Itoa(spec.AudioLoops))
	}
	args = append(args,
		"-i", spec.AudioPath,
		"-map", "0:v",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", spec.AudioCodec,
	)
	if spec.TargetDuration > 0 {
		args = append(args, "-t", formatSeconds(spec.TargetDuration))
	}
	return append(args, spec.OutputPath)
}

func (c *Client) run(ctx context.Context, operation string, args []string) error {
	binary := strings.TrimSpace(c.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}

	if c.Logger != nil {
		c.Logger.Debug("invoking engine", "binary", binary, "args", strings.Join(args, " "))
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", operation, detail, err)
	}
	return nil
}

// concatEntry renders one concat-demuxer directive, escaping single quotes the
// way the demuxer expects ('\'' splices).
func concatEntry(path string) string {
	escaped := strings.ReplaceAll(path, "'", `'\''`)
	return "file '" + escaped + "'\n"
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
