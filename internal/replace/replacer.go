package replace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resound/internal/fileutil"
	"resound/internal/services"
	"resound/internal/services/ffmpeg"
)

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".mkv":  {},
	".avi":  {},
	".m4v":  {},
	".webm": {},
}

// DiscoverVideos lists the video files in dir, sorted by name.
// A missing directory counts as empty.
func DiscoverVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		videos = append(videos, filepath.Join(dir, name))
	}
	return videos, nil
}

// CodecForContainer maps an output extension to the audio codec ffmpeg should
// encode. Unknown extensions are a hard failure; the caller may override via
// the audio-codec flag instead.
func CodecForContainer(ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".webm":
		return "opus", nil
	case ".mp4", ".mov", ".m4v", ".mkv":
		return "aac", nil
	case ".avi":
		return "mp3", nil
	default:
		return "", services.Wrap(services.ErrUnsupportedContainer, "replacer", "codec",
			fmt.Sprintf("no audio codec known for %q", ext), nil)
	}
}

// Replacer produces, per video, a new file with the original video streams
// copied and the resolved audio muxed in.
type Replacer struct {
	Engine ffmpeg.Engine
	// Suffix names the output next to the source when not replacing in place.
	Suffix string
	// CodecOverride bypasses the container-derived codec when set.
	CodecOverride string
	InPlace       bool
	Overwrite     bool
	Logger        *slog.Logger
}

// Replace runs one video. audioDuration is the resolved source's runtime,
// probed once by the caller. Returns the path the output landed at.
//
// The engine always writes to a temporary sibling which is renamed into place
// afterwards, so neither the in-place target nor the suffixed output ever
// holds a partial file.
func (r *Replacer) Replace(ctx context.Context, videoPath, audioPath string, audioDuration time.Duration) (string, error) {
	videoDuration, err := r.Engine.Duration(ctx, videoPath)
	if err != nil {
		return "", err
	}

	finalPath := videoPath
	if !r.InPlace {
		finalPath = r.suffixedPath(videoPath)
		if !r.Overwrite {
			if _, err := os.Stat(finalPath); err == nil {
				return "", fmt.Errorf("output exists: %s (use --overwrite)", finalPath)
			}
		}
	}

	codec := r.CodecOverride
	if codec == "" {
		if codec, err = CodecForContainer(filepath.Ext(finalPath)); err != nil {
			return "", err
		}
	}

	loops := 0
	if audioDuration < videoDuration {
		repeats := videoDuration / audioDuration
		if videoDuration%audioDuration != 0 {
			repeats++
		}
		loops = int(repeats) - 1
	}

	if r.Logger != nil {
		r.Logger.Info("replacing audio track",
			"video", videoPath,
			"video_duration", videoDuration,
			"audio_duration", audioDuration,
			"codec", codec,
			"loops", loops,
			"in_place", r.InPlace,
		)
	}

	tempPath := tempSibling(videoPath)
	err = r.Engine.Mux(ctx, ffmpeg.MuxSpec{
		VideoPath:      videoPath,
		AudioPath:      audioPath,
		OutputPath:     tempPath,
		AudioCodec:     codec,
		AudioLoops:     loops,
		TargetDuration: videoDuration,
	})
	if err != nil {
		_ = os.Remove(tempPath)
		return "", err
	}

	if err := fileutil.ReplacePath(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("finalize output: %w", err)
	}
	return finalPath, nil
}

func (r *Replacer) suffixedPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + r.Suffix + ext
}

// tempSibling keeps the video extension so the engine still infers the
// container format from the output name.
func tempSibling(videoPath string) string {
	dir := filepath.Dir(videoPath)
	ext := filepath.Ext(videoPath)
	base := strings.TrimSuffix(filepath.Base(videoPath), ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s%s", base, uuid.NewString()[:8], ext))
}
