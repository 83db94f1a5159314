package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoAudioSource marks runs where no MP3 could be resolved at all.
	ErrNoAudioSource = errors.New("no audio source")
	// ErrNoInputAudio marks combine attempts over an empty audio-input folder.
	ErrNoInputAudio = errors.New("no input audio")
	// ErrProbe marks duration probes that returned nothing usable.
	ErrProbe = errors.New("probe failure")
	// ErrUnsupportedContainer marks output extensions with no known audio codec.
	ErrUnsupportedContainer = errors.New("unsupported container")
	// ErrAmbiguousSelection marks selection flags that resolve to more than one
	// candidate, or to conflicting policies.
	ErrAmbiguousSelection = errors.New("ambiguous selection")
	// ErrExternalTool marks non-zero exits from ffmpeg/ffprobe invocations.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the whole run rather than a single
// video. A missing audio source leaves nothing for any video to proceed with.
func Fatal(err error) bool {
	return errors.Is(err, ErrNoAudioSource) || errors.Is(err, ErrNoInputAudio)
}

// Reason returns the short classification label for recording failures.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNoAudioSource):
		return "no-audio-source"
	case errors.Is(err, ErrNoInputAudio):
		return "no-input-audio"
	case errors.Is(err, ErrProbe):
		return "probe-failure"
	case errors.Is(err, ErrUnsupportedContainer):
		return "unsupported-container"
	case errors.Is(err, ErrAmbiguousSelection):
		return "ambiguous-selection"
	case errors.Is(err, ErrExternalTool):
		return "external-tool"
	case err == nil:
		return ""
	default:
		return "error"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
