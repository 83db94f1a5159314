package audio

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"resound/internal/services"
	"resound/internal/services/ffmpeg"
)

const combinedStampLayout = "2006.01.02-15.04.05"

// combineEngine is the slice of the external engine the Combiner needs.
type combineEngine interface {
	ffmpeg.Prober
	ffmpeg.Concatenator
}

// Combiner merges the MP3 fragments in InputDir into one file under OutputDir.
type Combiner struct {
	InputDir  string
	OutputDir string
	Engine    combineEngine
	// Permute supplies the shuffle permutation for n unprefixed entries.
	// Nil uses a random permutation; tests inject identity or fixed orders.
	Permute func(n int) []int
	// Now stamps the combined filename. Nil uses time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Entry is one fragment in a combine plan, with its start offset in the
// eventual combined file.
type Entry struct {
	Candidate
	Duration time.Duration
	Offset   time.Duration
}

// Plan discovers, orders, and probes the fragments. Prefixed entries sort
// first, ascending by prefix value; the rest keep discovery order unless
// shuffling is requested. Any probe failure aborts the plan.
func (c *Combiner) Plan(ctx context.Context, shuffle bool) ([]Entry, error) {
	candidates, err := Discover(c.InputDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.InputDir, err)
	}
	if len(candidates) == 0 {
		return nil, services.Wrap(services.ErrNoInputAudio, "combiner", "plan", fmt.Sprintf("no MP3 files in %s", c.InputDir), nil)
	}

	ordered := c.order(candidates, shuffle)

	entries := make([]Entry, 0, len(ordered))
	var offset time.Duration
	for _, candidate := range ordered {
		duration, err := c.Engine.Duration(ctx, candidate.Path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Candidate: candidate, Duration: duration, Offset: offset})
		offset += duration
	}
	return entries, nil
}

// Combine executes the plan: concatenate into OutputDir under a timestamp
// name, write the sibling tracklist, and return the combined file's path.
// The combined file reaches its final path only through a rename, so an
// aborted run never leaves a partial file there.
func (c *Combiner) Combine(ctx context.Context, shuffle bool) (string, error) {
	entries, err := c.Plan(ctx, shuffle)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", c.OutputDir, err)
	}

	finalPath := c.combinedPath()
	tempPath := filepath.Join(c.OutputDir, fmt.Sprintf(".%s.%s.mp3", stem(finalPath), uuid.NewString()[:8]))

	inputs := make([]string, len(entries))
	for i, entry := range entries {
		inputs[i] = entry.Path
	}

	if c.Logger != nil {
		c.Logger.Info("combining audio fragments", "count", len(inputs), "output", finalPath, "shuffle", shuffle)
	}

	if err := c.Engine.Concat(ctx, inputs, tempPath); err != nil {
		_ = os.Remove(tempPath)
		return "", err
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("finalize combined file: %w", err)
	}

	tracklistPath := strings.TrimSuffix(finalPath, filepath.Ext(finalPath)) + ".txt"
	if err := os.WriteFile(tracklistPath, []byte(Tracklist(entries)), 0o644); err != nil {
		return "", fmt.Errorf("write tracklist: %w", err)
	}

	return finalPath, nil
}

// order partitions candidates into prefixed and unprefixed groups. The
// prefixed group always comes first, ascending by prefix value, stable for
// equal prefixes; shuffling only ever permutes the unprefixed group.
func (c *Combiner) order(candidates []Candidate, shuffle bool) []Candidate {
	var prefixed, rest []Candidate
	for _, candidate := range candidates {
		if _, ok := orderPrefix(candidate.Name()); ok {
			prefixed = append(prefixed, candidate)
		} else {
			rest = append(rest, candidate)
		}
	}

	sort.SliceStable(prefixed, func(i, j int) bool {
		a, _ := orderPrefix(prefixed[i].Name())
		b, _ := orderPrefix(prefixed[j].Name())
		return a < b
	})

	if shuffle && len(rest) > 1 {
		permute := c.Permute
		if permute == nil {
			permute = rand.Perm
		}
		shuffled := make([]Candidate, len(rest))
		for i, j := range permute(len(rest)) {
			shuffled[i] = rest[j]
		}
		rest = shuffled
	}

	return append(prefixed, rest...)
}

func (c *Combiner) combinedPath() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	base := now().Format(combinedStampLayout)

	path := filepath.Join(c.OutputDir, base+".mp3")
	for n := 2; ; n++ {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		// Two combines within one second; suffix instead of overwriting.
		path = filepath.Join(c.OutputDir, fmt.Sprintf("%s-%d.mp3", base, n))
	}
}

// Tracklist renders one line per fragment: start offset and display name, in
// concatenation order.
func Tracklist(entries []Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(FormatOffset(entry.Offset))
		b.WriteString("  ")
		b.WriteString(entry.DisplayName())
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatOffset renders a duration as HH:MM:SS, rounding to whole seconds.
func FormatOffset(d time.Duration) string {
	total := int64(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
