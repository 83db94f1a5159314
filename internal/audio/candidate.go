package audio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Candidate is one discovered MP3 file. Read-only once discovered.
type Candidate struct {
	Path    string
	ModTime time.Time
}

// Name returns the candidate's base filename.
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// Stem returns the base filename without its extension.
func (c Candidate) Stem() string {
	name := c.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DisplayName strips the extension and any leading two-digit ordering prefix.
// "01 Theme.mp3" renders as "Theme"; "Song A.mp3" stays "Song A".
func (c Candidate) DisplayName() string {
	stem := c.Stem()
	if _, ok := orderPrefix(stem); ok {
		return stem[3:]
	}
	return stem
}

// orderPrefix parses a leading two-digit prefix followed by a space,
// underscore, or dash. Only exactly two digits count.
func orderPrefix(name string) (int, bool) {
	if len(name) < 3 {
		return 0, false
	}
	d1, d2 := name[0], name[1]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return 0, false
	}
	switch name[2] {
	case ' ', '_', '-':
		return int(d1-'0')*10 + int(d2-'0'), true
	}
	return 0, false
}

// Discover lists the MP3 files in dir in directory order (lexical by name).
// A missing directory counts as empty. Dotfiles are skipped so an interrupted
// combine's temporary output never becomes a candidate.
func Discover(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".mp3") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
		})
	}
	return candidates, nil
}
