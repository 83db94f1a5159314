package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"01 Theme.mp3":     "Theme",
		"02_Interlude.mp3": "Interlude",
		"03-Outro.mp3":     "Outro",
		"Song A.mp3":       "Song A",
		"1 Short.mp3":      "1 Short",
		"123 Long.mp3":     "123 Long",
		"01Theme.mp3":      "01Theme",
	}
	for name, want := range cases {
		c := Candidate{Path: filepath.Join("/x", name)}
		if got := c.DisplayName(); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestOrderPrefix(t *testing.T) {
	if v, ok := orderPrefix("07 Track"); !ok || v != 7 {
		t.Fatalf("orderPrefix(07 Track) = %d, %v", v, ok)
	}
	if v, ok := orderPrefix("42-Track"); !ok || v != 42 {
		t.Fatalf("orderPrefix(42-Track) = %d, %v", v, ok)
	}
	for _, name := range []string{"7 Track", "ab Track", "01x", "0", ""} {
		if _, ok := orderPrefix(name); ok {
			t.Fatalf("orderPrefix(%q) unexpectedly matched", name)
		}
	}
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.MP3", "notes.txt", ".hidden.mp3", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	candidates, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Name() != "a.MP3" || candidates[1].Name() != "b.mp3" {
		t.Fatalf("unexpected order: %s, %s", candidates[0].Name(), candidates[1].Name())
	}
}

func TestDiscoverMissingDirIsEmpty(t *testing.T) {
	candidates, err := Discover(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(candidates))
	}
}
