package version

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrInconsistent wraps every mismatch found by Check.
var ErrInconsistent = errors.New("versions are inconsistent")

// Report is the outcome of a consistency check.
type Report struct {
	ScriptPath string
	Script     Version

	ReadmePath string
	Readme     *Version

	Tag *Version
}

// Check compares the script's version constant with its header comment, its
// companion README and the latest release tag (empty when the repository has
// none). Every mismatch is collected before returning.
func Check(path, latestTag string) (Report, error) {
	rep := Report{ScriptPath: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("read %s: %w", path, err)
	}
	lines := splitLines(string(content))
	hdr, err := parseLines(lines)
	if err != nil {
		return rep, fmt.Errorf("%s: %w", path, err)
	}
	rep.Script = hdr.Version

	var merr error

	if hdr.HeaderVersionLine >= 0 {
		raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[hdr.HeaderVersionLine]), HeaderVersionPrefix))
		if hv, err := ParseVersion(raw); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("header comment: %w", err))
		} else if hv != rep.Script {
			merr = multierror.Append(merr, fmt.Errorf("header comment says %s, constant says %s", hv, rep.Script))
		}
	}

	if c := FindCompanions(path); c.Readme != "" {
		rep.ReadmePath = c.Readme
		rv, err := readmeVersion(c.Readme)
		if err != nil {
			merr = multierror.Append(merr, err)
		} else {
			rep.Readme = &rv
			if rv != rep.Script {
				merr = multierror.Append(merr, fmt.Errorf("%s says %s, script says %s", c.Readme, rv, rep.Script))
			}
		}
	}

	if latestTag != "" {
		tv, err := ParseVersion(strings.TrimPrefix(latestTag, "v"))
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("tag %s: %w", latestTag, err))
		} else {
			rep.Tag = &tv
			if tv != rep.Script {
				merr = multierror.Append(merr, fmt.Errorf("latest tag %s does not match script version %s", latestTag, rep.Script))
			}
		}
	}

	if merr != nil {
		return rep, fmt.Errorf("%w: %w", ErrInconsistent, merr)
	}
	return rep, nil
}

func readmeVersion(path string) (Version, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Version{}, fmt.Errorf("read %s: %w", path, err)
	}
	for _, line := range splitLines(string(content)) {
		if strings.HasPrefix(line, ReadmeVersionPrefix) {
			v, err := ParseVersion(strings.TrimSpace(strings.TrimPrefix(line, ReadmeVersionPrefix)))
			if err != nil {
				return Version{}, fmt.Errorf("%s: %w", path, err)
			}
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("%s: no %s line", path, ReadmeVersionPrefix)
}
