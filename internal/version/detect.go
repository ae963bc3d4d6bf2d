package version

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoCandidates is returned when auto-detection finds no versioned script.
var ErrNoCandidates = errors.New("no versioned script found")

// Detect walks root in lexical order and returns the first .sh file carrying a
// valid version constant, together with any further candidates so the caller
// can warn about the ambiguity. Files whose base name is in exclude are
// skipped, as are .git directories.
func Detect(root string, exclude ...string) (string, []string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".sh") || slices.Contains(exclude, d.Name()) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := ParseHeader(string(content)); err == nil {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("scan %s: %w", root, err)
	}

	if len(found) == 0 {
		return "", nil, fmt.Errorf("%w under %s", ErrNoCandidates, root)
	}
	return found[0], found[1:], nil
}
