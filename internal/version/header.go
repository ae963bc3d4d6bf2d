package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnversioned means the script has no version constant; use init.
	ErrUnversioned = errors.New("no version constant found")
	// ErrAmbiguousVersion means more than one version constant was found.
	ErrAmbiguousVersion = errors.New("multiple version constants found")
)

var (
	constantPattern      = regexp.MustCompile(`^(?:readonly\s+)?` + ConstantName + `=["']([^"']*)["']\s*(?:#.*)?$`)
	headerVersionPattern = regexp.MustCompile(`^#\s*VERSION:`)

	informalPatterns = map[string]*regexp.Regexp{
		"description": regexp.MustCompile(`(?i)^#\s*description\s*:\s*(.+)$`),
		"author":      regexp.MustCompile(`(?i)^#\s*author\s*:\s*(.+)$`),
		"usage":       regexp.MustCompile(`(?i)^#\s*usage\s*:\s*(.+)$`),
	}
)

// VersionHeader is what the engine knows about a script after reading it.
// Line fields are zero-based indexes into the script's lines, -1 when absent.
type VersionHeader struct {
	Version Version

	ConstantLine      int
	HeaderVersionLine int
	ChangelogLine     int

	// Informal metadata from pre-existing comments, used when initializing.
	Description string
	Author      string
	Usage       string
}

// ParseHeader inspects a script. It always fills the informal metadata and the
// line indexes it finds; the error reports whether the script is versioned.
func ParseHeader(content string) (VersionHeader, error) {
	return parseLines(splitLines(content))
}

func parseLines(lines []string) (VersionHeader, error) {
	hdr := VersionHeader{ConstantLine: -1, HeaderVersionLine: -1, ChangelogLine: -1}

	var found []int
	var raw string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if m := constantPattern.FindStringSubmatch(trimmed); m != nil {
			found = append(found, i)
			raw = m[1]
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		if hdr.HeaderVersionLine < 0 && headerVersionPattern.MatchString(trimmed) {
			hdr.HeaderVersionLine = i
		}
		if hdr.ChangelogLine < 0 && trimmed == ChangelogMarker {
			hdr.ChangelogLine = i
		}
		hdr.collectInformal(trimmed)
	}

	switch len(found) {
	case 0:
		return hdr, ErrUnversioned
	case 1:
	default:
		return hdr, fmt.Errorf("%w on lines %v", ErrAmbiguousVersion, lineNumbers(found))
	}

	hdr.ConstantLine = found[0]
	v, err := ParseVersion(raw)
	if err != nil {
		return hdr, fmt.Errorf("line %d: %w", found[0]+1, err)
	}
	hdr.Version = v
	return hdr, nil
}

func (h *VersionHeader) collectInformal(line string) {
	for key, re := range informalPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		switch key {
		case "description":
			if h.Description == "" {
				h.Description = value
			}
		case "author":
			if h.Author == "" {
				h.Author = value
			}
		case "usage":
			if h.Usage == "" {
				h.Usage = value
			}
		}
	}
}

func lineNumbers(idx []int) []int {
	out := make([]int, len(idx))
	for i, n := range idx {
		out[i] = n + 1
	}
	return out
}

func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// insertLines returns lines with extra inserted before index at.
func insertLines(lines []string, at int, extra ...string) []string {
	out := make([]string, 0, len(lines)+len(extra))
	out = append(out, lines[:at]...)
	out = append(out, extra...)
	return append(out, lines[at:]...)
}
