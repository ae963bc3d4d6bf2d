package gitutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotRepository is returned when no enclosing Git repository exists.
var ErrNotRepository = errors.New("not inside a git repository")

// FindRepoRoot returns the innermost directory at or above path that holds a
// `.git` directory with a HEAD file, or a `.git` file pointing at one (worktrees).
func FindRepoRoot(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	for {
		if isRepoRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		dir = parent
	}
}

func isRepoRoot(dir string) bool {
	dotGit := filepath.Join(dir, ".git")
	fi, err := os.Lstat(dotGit)
	if err != nil {
		return false
	}

	headDir := dotGit
	if !fi.IsDir() {
		headDir, err = resolveGitFile(dotGit, dir)
		if err != nil {
			return false
		}
	}

	head, err := os.Lstat(filepath.Join(headDir, "HEAD"))
	return err == nil && !head.IsDir()
}

// resolveGitFile reads a `.git` file of the form `gitdir: <path>`.
// Relative paths are resolved against baseDir.
func resolveGitFile(dotGitPath, baseDir string) (string, error) {
	f, err := os.Open(dotGitPath)
	if err != nil {
		return "", fmt.Errorf("open git file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", errors.New("empty git file")
	}

	gitDir, found := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "gitdir: ")
	if !found {
		return "", errors.New("missing gitdir prefix")
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(baseDir, gitDir)
	}
	return filepath.Clean(gitDir), nil
}
