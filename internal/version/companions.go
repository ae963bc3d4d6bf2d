package version

import (
	"path/filepath"
	"strings"

	"mdm-scriptgen/internal/fsutil"
)

// Companions are the README and CHANGELOG generated next to a script.
// Empty fields mean the file does not exist.
type Companions struct {
	Readme    string
	Changelog string
}

// FindCompanions looks for the attached-mode names (<name>_README.md,
// <name>_CHANGELOG.md) first. The standalone names (README.md, CHANGELOG.md)
// are only used when the script lives in a directory named after itself, so a
// repository's own README is never touched.
func FindCompanions(scriptPath string) Companions {
	dir := filepath.Dir(scriptPath)
	name := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
	standalone := filepath.Base(dir) == name

	var c Companions
	if p := filepath.Join(dir, name+"_README.md"); fsutil.Exists(p) {
		c.Readme = p
	} else if p := filepath.Join(dir, "README.md"); standalone && fsutil.Exists(p) {
		c.Readme = p
	}

	if p := filepath.Join(dir, name+"_CHANGELOG.md"); fsutil.Exists(p) {
		c.Changelog = p
	} else if p := filepath.Join(dir, "CHANGELOG.md"); standalone && fsutil.Exists(p) {
		c.Changelog = p
	}
	return c
}
