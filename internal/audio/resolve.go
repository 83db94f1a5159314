package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"resound/internal/services"
)

// Policy selects one candidate from the audio folder.
type Policy string

const (
	// PickLatest selects the newest modification time. Default.
	PickLatest Policy = "latest"
	// PickOldest selects the oldest modification time.
	PickOldest Policy = "oldest"
	// PickByName selects by display name, case-insensitive, extension optional.
	PickByName Policy = "name"
)

// ParsePolicy validates a --audio-pick value. Empty means "use the default".
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return "", nil
	case PickLatest:
		return PickLatest, nil
	case PickOldest:
		return PickOldest, nil
	case PickByName:
		return PickByName, nil
	default:
		return "", fmt.Errorf("audio-pick: unknown policy %q (want latest, oldest, or name)", value)
	}
}

// Selection carries the CLI's source-selection intent. Exactly one policy is
// active per run: an explicit file excludes pick flags.
type Selection struct {
	ExplicitFile string
	Policy       Policy
	Name         string
	// Shuffle permutes the unprefixed fragments when resolution falls
	// through to a combine.
	Shuffle bool
}

// Resolver produces exactly one MP3 path to use as the audio source.
type Resolver struct {
	AudioDir string
	Combiner *Combiner
	Logger   *slog.Logger
}

// Resolve applies the selection rules: explicit file first, then a pick from
// the audio folder, then a fresh combine from the input folder. forceCombine
// skips the pick and always produces a new combined file.
func (r *Resolver) Resolve(ctx context.Context, sel Selection, forceCombine bool) (string, error) {
	if sel.ExplicitFile != "" {
		if sel.Policy != "" || sel.Name != "" {
			return "", services.Wrap(services.ErrAmbiguousSelection, "resolver", "select",
				"audio-file cannot be combined with audio-pick or audio-name", nil)
		}
		return r.resolveExplicit(sel.ExplicitFile)
	}

	if sel.Policy == PickByName && strings.TrimSpace(sel.Name) == "" {
		return "", fmt.Errorf("audio-name is required when audio-pick is %q", PickByName)
	}

	if !forceCombine {
		candidates, err := Discover(r.AudioDir)
		if err != nil {
			return "", fmt.Errorf("list %s: %w", r.AudioDir, err)
		}
		if len(candidates) > 0 {
			return r.pick(candidates, sel)
		}
	}

	path, err := r.Combiner.Combine(ctx, sel.Shuffle)
	if err != nil {
		if services.Fatal(err) {
			return "", services.Wrap(services.ErrNoAudioSource, "resolver", "combine", "no audio source found", err)
		}
		return "", err
	}
	if r.Logger != nil {
		r.Logger.Info("using freshly combined audio", "path", path)
	}
	return path, nil
}

func (r *Resolver) resolveExplicit(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(absolute)
	if err != nil {
		return "", services.Wrap(services.ErrNoAudioSource, "resolver", "select", fmt.Sprintf("audio file not found: %s", absolute), nil)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(absolute), ".mp3") {
		return "", services.Wrap(services.ErrNoAudioSource, "resolver", "select", fmt.Sprintf("not an MP3 file: %s", absolute), nil)
	}
	return absolute, nil
}

func (r *Resolver) pick(candidates []Candidate, sel Selection) (string, error) {
	policy := sel.Policy
	if policy == "" {
		policy = PickLatest
	}

	switch policy {
	case PickLatest:
		best := candidates[0]
		for _, candidate := range candidates[1:] {
			if candidate.ModTime.After(best.ModTime) {
				best = candidate
			}
		}
		return best.Path, nil
	case PickOldest:
		best := candidates[0]
		for _, candidate := range candidates[1:] {
			if candidate.ModTime.Before(best.ModTime) {
				best = candidate
			}
		}
		return best.Path, nil
	case PickByName:
		return r.pickByName(candidates, sel.Name)
	default:
		return "", fmt.Errorf("audio-pick: unknown policy %q", policy)
	}
}

func (r *Resolver) pickByName(candidates []Candidate, name string) (string, error) {
	name = strings.TrimSpace(name)

	var matches []Candidate
	for _, candidate := range candidates {
		if strings.EqualFold(candidate.Name(), name) ||
			strings.EqualFold(candidate.Stem(), name) ||
			strings.EqualFold(candidate.DisplayName(), name) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return "", services.Wrap(services.ErrNoAudioSource, "resolver", "select",
			fmt.Sprintf("no MP3 in %s named %q", r.AudioDir, name), nil)
	case 1:
		return matches[0].Path, nil
	default:
		names := make([]string, len(matches))
		for i, match := range matches {
			names[i] = match.Name()
		}
		return "", services.Wrap(services.ErrAmbiguousSelection, "resolver", "select",
			fmt.Sprintf("multiple matches for %q: %s", name, strings.Join(names, ", ")), nil)
	}
}
