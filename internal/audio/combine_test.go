package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resound/internal/services"
)

type fakeEngine struct {
	durations map[string]time.Duration
	probeErr  map[string]error
	concatErr error
	concats   [][]string
}

func (f *fakeEngine) Duration(_ context.Context, path string) (time.Duration, error) {
	if err := f.probeErr[filepath.Base(path)]; err != nil {
		return 0, err
	}
	if d, ok := f.durations[filepath.Base(path)]; ok {
		return d, nil
	}
	return time.Minute, nil
}

func (f *fakeEngine) Concat(_ context.Context, inputs []string, output string) error {
	names := make([]string, len(inputs))
	for i, input := range inputs {
		names[i] = filepath.Base(input)
	}
	f.concats = append(f.concats, names)
	if f.concatErr != nil {
		return f.concatErr
	}
	return os.WriteFile(output, []byte("combined"), 0o644)
}

func writeInputs(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("mp3"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newCombiner(t *testing.T, engine *fakeEngine, names ...string) *Combiner {
	t.Helper()
	base := t.TempDir()
	input := filepath.Join(base, "audio-input")
	writeInputs(t, input, names...)
	return &Combiner{
		InputDir:  input,
		OutputDir: filepath.Join(base, "audio"),
		Engine:    engine,
		Now:       func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
	}
}

func planNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names
}

func TestPlanPrefixedEntriesAlwaysLeadInAscendingOrder(t *testing.T) {
	engine := &fakeEngine{}
	combiner := newCombiner(t, engine, "Zulu.mp3", "10 Ten.mp3", "Alpha.mp3", "02 Two.mp3")

	for _, shuffle := range []bool{false, true} {
		combiner.Permute = func(n int) []int {
			// Reverse permutation: shuffling must still never touch the prefixed group.
			perm := make([]int, n)
			for i := range perm {
				perm[i] = n - 1 - i
			}
			return perm
		}
		entries, err := combiner.Plan(context.Background(), shuffle)
		if err != nil {
			t.Fatalf("plan: %v", err)
		}
		got := planNames(entries)
		if got[0] != "02 Two.mp3" || got[1] != "10 Ten.mp3" {
			t.Fatalf("prefixed entries out of order (shuffle=%v): %v", shuffle, got)
		}
	}
}

func TestPlanWithoutShuffleKeepsDirectoryOrder(t *testing.T) {
	engine := &fakeEngine{}
	combiner := newCombiner(t, engine, "Charlie.mp3", "Alpha.mp3", "Bravo.mp3")

	entries, err := combiner.Plan(context.Background(), false)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := strings.Join(planNames(entries), ",")
	if got != "Alpha.mp3,Bravo.mp3,Charlie.mp3" {
		t.Fatalf("unexpected order: %s", got)
	}
}

func TestPlanShufflePermutesOnlyUnprefixed(t *testing.T) {
	engine := &fakeEngine{}
	combiner := newCombiner(t, engine, "01 First.mp3", "Alpha.mp3", "Bravo.mp3", "Charlie.mp3")
	combiner.Permute = func(n int) []int {
		if n != 3 {
			t.Fatalf("permutation requested for %d entries, want 3", n)
		}
		return []int{2, 0, 1}
	}

	entries, err := combiner.Plan(context.Background(), true)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	got := strings.Join(planNames(entries), ",")
	if got != "01 First.mp3,Charlie.mp3,Alpha.mp3,Bravo.mp3" {
		t.Fatalf("unexpected shuffled order: %s", got)
	}
}

func TestPlanOffsetsAccumulate(t *testing.T) {
	engine := &fakeEngine{durations: map[string]time.Duration{
		"01 A.mp3": 90 * time.Second,
		"02 B.mp3": 30 * time.Second,
		"03 C.mp3": 45 * time.Second,
	}}
	combiner := newCombiner(t, engine, "01 A.mp3", "02 B.mp3", "03 C.mp3")

	entries, err := combiner.Plan(context.Background(), false)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if entries[0].Offset != 0 {
		t.Fatalf("first offset must be zero, got %v", entries[0].Offset)
	}
	if entries[1].Offset != 90*time.Second || entries[2].Offset != 120*time.Second {
		t.Fatalf("unexpected offsets: %v, %v", entries[1].Offset, entries[2].Offset)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Offset < entries[i-1].Offset {
			t.Fatalf("offsets must be non-decreasing: %v", entries)
		}
	}
}

func TestPlanEmptyInputDir(t *testing.T) {
	combiner := newCombiner(t, &fakeEngine{})
	_, err := combiner.Plan(context.Background(), false)
	if !errors.Is(err, services.ErrNoInputAudio) {
		t.Fatalf("expected ErrNoInputAudio, got %v", err)
	}
}

func TestPlanProbeFailureAborts(t *testing.T) {
	engine := &fakeEngine{probeErr: map[string]error{
		"Broken.mp3": services.Wrap(services.ErrProbe, "ffmpeg", "probe", "Broken.mp3", nil),
	}}
	combiner := newCombiner(t, engine, "Alpha.mp3", "Broken.mp3")

	_, err := combiner.Plan(context.Background(), false)
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestCombineWritesTimestampedFileAndTracklist(t *testing.T) {
	engine := &fakeEngine{durations: map[string]time.Duration{
		"01 Theme.mp3": 130 * time.Second,
		"Song A.mp3":   40 * time.Second,
	}}
	combiner := newCombiner(t, engine, "01 Theme.mp3", "Song A.mp3")

	path, err := combiner.Combine(context.Background(), false)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if filepath.Base(path) != "2026.03.14-09.26.53.mp3" {
		t.Fatalf("unexpected combined name: %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("combined file missing: %v", err)
	}

	tracklist, err := os.ReadFile(strings.TrimSuffix(path, ".mp3") + ".txt")
	if err != nil {
		t.Fatalf("tracklist missing: %v", err)
	}
	want := "00:00:00  Theme\n00:02:10  Song A\n"
	if string(tracklist) != want {
		t.Fatalf("tracklist = %q, want %q", tracklist, want)
	}
}

func TestCombineIsDeterministicWithoutShuffle(t *testing.T) {
	engine := &fakeEngine{}
	combiner := newCombiner(t, engine, "Bravo.mp3", "Alpha.mp3", "01 Lead.mp3")

	if _, err := combiner.Combine(context.Background(), false); err != nil {
		t.Fatalf("combine: %v", err)
	}
	if _, err := combiner.Combine(context.Background(), false); err != nil {
		t.Fatalf("combine: %v", err)
	}
	if len(engine.concats) != 2 {
		t.Fatalf("expected 2 concat invocations, got %d", len(engine.concats))
	}
	first := strings.Join(engine.concats[0], ",")
	second := strings.Join(engine.concats[1], ",")
	if first != second || first != "01 Lead.mp3,Alpha.mp3,Bravo.mp3" {
		t.Fatalf("combine order not deterministic: %q vs %q", first, second)
	}
}

func TestCombineCollisionGetsSuffix(t *testing.T) {
	engine := &fakeEngine{}
	combiner := newCombiner(t, engine, "Alpha.mp3")

	first, err := combiner.Combine(context.Background(), false)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	second, err := combiner.Combine(context.Background(), false)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if first == second {
		t.Fatalf("second combine overwrote the first: %s", first)
	}
	if filepath.Base(second) != "2026.03.14-09.26.53-2.mp3" {
		t.Fatalf("unexpected collision name: %s", filepath.Base(second))
	}
}

func TestCombineLeavesNoPartialFileOnConcatFailure(t *testing.T) {
	engine := &fakeEngine{concatErr: services.Wrap(services.ErrExternalTool, "ffmpeg", "concat", "boom", nil)}
	combiner := newCombiner(t, engine, "Alpha.mp3")

	_, err := combiner.Combine(context.Background(), false)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}

	leftovers, err := Discover(combiner.OutputDir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("partial combined file left behind: %v", leftovers)
	}
}

func TestFormatOffset(t *testing.T) {
	cases := map[time.Duration]string{
		0:                                     "00:00:00",
		130 * time.Second:                     "00:02:10",
		3*time.Hour + 59*time.Second:          "03:00:59",
		90*time.Second + 600*time.Millisecond: "00:01:31",
	}
	for d, want := range cases {
		if got := FormatOffset(d); got != want {
			t.Fatalf("FormatOffset(%v) = %q, want %q", d, got, want)
		}
	}
}
