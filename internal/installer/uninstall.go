package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"mdm-scriptgen/internal/logger"
)

// Uninstall removes the binary recorded in the state. Without a record it
// falls back to looking for name in each of Dirs.
func (i *Installer) Uninstall(name string) error {
	logger.Info("[INFO] Uninstalling %s...\n", name)

	candidates := make([]string, 0, len(i.Dirs)+1)
	if rec, ok := i.State.Binaries[name]; ok && rec.InstallPath != "" {
		candidates = append(candidates, rec.InstallPath)
	} else {
		for _, dir := range i.Dirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	removed := false
	for _, path := range candidates {
		if _, err := os.Lstat(path); err != nil {
			logger.Debug("[DEBUG] Skipping %s: %v\n", path, err)
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		logger.Info("[INFO] Successfully removed %s\n", path)
		removed = true
	}

	delete(i.State.Binaries, name)
	if !removed {
		return fmt.Errorf("%s: %w", name, ErrNotInstalled)
	}
	return nil
}
