package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/version"
)

// ErrTargetExists is returned before any write when an artifact path is taken.
var ErrTargetExists = errors.New("target already exists")

// Mode selects where artifacts are written and how they are named.
type Mode int

const (
	// Attached writes into an existing repository: <name>.sh, <name>_README.md, <name>_CHANGELOG.md.
	Attached Mode = iota
	// Standalone creates <name>/ holding <name>.sh, README.md and CHANGELOG.md.
	Standalone
)

func (m Mode) String() string {
	if m == Standalone {
		return "standalone"
	}
	return "attached"
}

// ArtifactSet locates the files of one generated script.
type ArtifactSet struct {
	Mode          Mode
	Dir           string
	ScriptPath    string
	ReadmePath    string
	ChangelogPath string
	Version       version.Version
}

// ResolvePaths applies the naming convention of mode under root.
func ResolvePaths(mode Mode, root, name string) ArtifactSet {
	set := ArtifactSet{Mode: mode, Version: version.Initial}
	switch mode {
	case Standalone:
		set.Dir = filepath.Join(root, name)
		set.ScriptPath = filepath.Join(set.Dir, name+".sh")
		set.ReadmePath = filepath.Join(set.Dir, "README.md")
		set.ChangelogPath = filepath.Join(set.Dir, "CHANGELOG.md")
	default:
		set.Dir = root
		set.ScriptPath = filepath.Join(root, name+".sh")
		set.ReadmePath = filepath.Join(root, name+"_README.md")
		set.ChangelogPath = filepath.Join(root, name+"_CHANGELOG.md")
	}
	return set
}

// CheckTargets fails if any artifact (or, in standalone mode, the directory) already exists.
func (s ArtifactSet) CheckTargets() error {
	paths := []string{s.ScriptPath, s.ReadmePath, s.ChangelogPath}
	if s.Mode == Standalone {
		paths = append([]string{s.Dir}, paths...)
	}
	for _, p := range paths {
		_, err := os.Stat(p)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrTargetExists, p)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return nil
}

// Write renders in into the artifact set. All targets are checked before the
// first write, and every file is created exclusively so nothing is clobbered.
func Write(in Input, set ArtifactSet) error {
	if err := set.CheckTargets(); err != nil {
		return err
	}

	if set.Mode == Standalone {
		if err := os.MkdirAll(set.Dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", set.Dir, err)
		}
	}

	files := []struct {
		path string
		doc  *Document
		mode os.FileMode
	}{
		{set.ScriptPath, Script(in), 0o755},
		{set.ReadmePath, Readme(in), 0o644},
		{set.ChangelogPath, Changelog(in), 0o644},
	}
	for _, f := range files {
		if err := createExclusive(f.path, f.doc.String(), f.mode); err != nil {
			return err
		}
		logger.Info("[INFO] Created %s\n", f.path)
	}
	return nil
}

func createExclusive(path, content string, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrTargetExists, path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	// The umask may have stripped the execute bit from the script.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
