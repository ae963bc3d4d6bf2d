package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mdm-scriptgen/internal/fsutil"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/state"
)

// ErrNotInstalled is returned by Uninstall when no copy of the binary is found.
var ErrNotInstalled = errors.New("not installed")

// Installer copies a binary into the first writable directory of Dirs.
type Installer struct {
	Dirs  []string
	State *state.State
	Today string
}

// DefaultDirs is /usr/local/bin with $HOME/bin as the fallback.
func DefaultDirs() []string {
	dirs := []string{"/usr/local/bin"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "bin"))
	}
	return dirs
}

// Install copies src to <dir>/<name>, trying each directory in order, and
// records the result in the state. It returns the installed path.
func (i *Installer) Install(src, name, version string) (string, error) {
	logger.Debug("[DEBUG] Installing %s from %s\n", name, src)

	var lastErr error
	for _, dir := range i.Dirs {
		dst := filepath.Join(dir, name)
		if err := fsutil.CopyFile(src, dst, 0o755); err != nil {
			// Typically permission denied on /usr/local/bin without sudo
			logger.Warn("[WARN] Cannot install into %s: %v\n", dir, err)
			lastErr = err
			continue
		}

		i.State.Binaries[name] = state.BinaryState{
			Version:     version,
			InstallPath: dst,
			InstalledAt: i.Today,
		}
		logger.Info("[INFO] Installed %s@%s to %s\n", name, version, dst)
		if !onPath(dir) {
			logger.Warn("[WARN] %s is not on your PATH\n", dir)
		}
		return dst, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no install directory configured")
	}
	return "", fmt.Errorf("install %s: %w", name, lastErr)
}

func onPath(dir string) bool {
	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if filepath.Clean(p) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}
