package version

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/fsutil"
	"mdm-scriptgen/internal/logger"
)

// ErrAlreadyVersioned is returned by Init on a script that already has a version constant.
var ErrAlreadyVersioned = errors.New("script is already versioned")

// ErrInvalidDescription is returned for a description that cannot be written
// into a single comment line.
var ErrInvalidDescription = errors.New("description must be a single non-empty line")

// BackupSuffix is appended to the script path for the pre-rewrite copy.
const BackupSuffix = ".bak"

// Engine performs init and bump on generated scripts.
type Engine struct {
	Ctx env.Context
}

// Result describes what a bump or init changed.
type Result struct {
	ScriptPath    string
	BackupPath    string
	ReadmePath    string // empty when no companion README was updated
	ChangelogPath string // empty when no companion CHANGELOG was updated
	Previous      *Version
	Current       Version
}

// Init adds a structured header and version 1.0.0 to an unversioned script.
// Informal "# Description:", "# Author:" and "# Usage:" comments are carried
// into the new header. A versioned script is left untouched.
func (e Engine) Init(path, description string) (Result, error) {
	res := Result{ScriptPath: path, Current: Initial}

	if err := checkDescription(description); err != nil {
		return res, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	hdr, err := ParseHeader(string(content))
	switch {
	case err == nil:
		return res, fmt.Errorf("%w: %s is at %s", ErrAlreadyVersioned, path, hdr.Version)
	case !errors.Is(err, ErrUnversioned):
		return res, fmt.Errorf("%s: %w", path, err)
	}

	lines := splitLines(string(content))
	at := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		at = 1
	}
	updated := joinLines(insertLines(lines, at, e.initHeader(path, description, hdr)...))

	res.BackupPath, err = backup(path)
	if err != nil {
		return res, err
	}
	if err := fsutil.ReplaceFile(path, updated); err != nil {
		return res, err
	}
	logger.Info("[INFO] Initialized %s at %s\n", path, Initial)
	return res, nil
}

func (e Engine) initHeader(path, description string, hdr VersionHeader) []string {
	author := hdr.Author
	if author == "" {
		author = e.Ctx.Author
	}
	desc := hdr.Description
	if desc == "" {
		desc = description
	}

	header := []string{
		"#",
		"# SCRIPT: " + filepath.Base(path),
		HeaderVersionLine(Initial),
		"# AUTHOR: " + author,
		"# EMAIL: " + e.Ctx.Email,
		"# DATE: " + e.Ctx.Today(),
		"# Description: " + desc,
	}
	if hdr.Usage != "" {
		header = append(header, "# Usage: "+hdr.Usage)
	}
	return append(header,
		"#",
		ChangelogMarker,
		ChangelogLine(Initial, e.Ctx.Today(), description),
		"#",
		"",
		ConstantLine(Initial),
		"",
	)
}

// plan holds every new file content of a bump, computed before any write.
type plan struct {
	script, readme, changelog string
	readmePath, changelogPath string
}

// Bump advances the script at path by one increment of kind and synchronizes
// its companion README and CHANGELOG when they exist.
//
// All new contents are computed first. Writes then happen in a fixed order:
// backup, rewriteScript, rewriteReadme, rewriteChangelog. Each file is replaced
// atomically but the three are independent; if a later step fails the earlier
// ones stay applied and the backup is the way back.
func (e Engine) Bump(path string, kind Kind, description string) (Result, error) {
	res := Result{ScriptPath: path}

	kind, err := ParseKind(string(kind))
	if err != nil {
		return res, err
	}
	if err := checkDescription(description); err != nil {
		return res, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}

	lines := splitLines(string(content))
	hdr, err := parseLines(lines)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}

	next, err := hdr.Version.Next(kind)
	if err != nil {
		return res, err
	}
	prev := hdr.Version
	res.Previous = &prev
	res.Current = next

	today := e.Ctx.Today()
	p := plan{script: rewriteScript(lines, hdr, next, today, description)}

	companions := FindCompanions(path)
	if companions.Readme != "" {
		raw, err := os.ReadFile(companions.Readme)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", companions.Readme, err)
		}
		p.readmePath = companions.Readme
		p.readme = rewriteReadme(string(raw), next, today, description)
	}
	if companions.Changelog != "" {
		raw, err := os.ReadFile(companions.Changelog)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", companions.Changelog, err)
		}
		p.changelogPath = companions.Changelog
		p.changelog = rewriteChangelog(string(raw), next, kind, today, description)
	}

	res.BackupPath, err = backup(path)
	if err != nil {
		return res, err
	}

	if err := fsutil.ReplaceFile(path, p.script); err != nil {
		return res, err
	}
	logger.Info("[INFO] %s: %s -> %s\n", path, prev, next)

	if p.readmePath != "" {
		if err := fsutil.ReplaceFile(p.readmePath, p.readme); err != nil {
			return res, fmt.Errorf("script already bumped, restore from %s: %w", res.BackupPath, err)
		}
		res.ReadmePath = p.readmePath
		logger.Info("[INFO] Updated %s\n", p.readmePath)
	}

	if p.changelogPath != "" {
		if err := fsutil.ReplaceFile(p.changelogPath, p.changelog); err != nil {
			return res, fmt.Errorf("script already bumped, restore from %s: %w", res.BackupPath, err)
		}
		res.ChangelogPath = p.changelogPath
		logger.Info("[INFO] Updated %s\n", p.changelogPath)
	}
	return res, nil
}

// rewriteScript updates the header comment and the constant and adds a changelog
// line directly after the CHANGELOG marker. Scripts without a marker get one
// just above the constant.
func rewriteScript(lines []string, hdr VersionHeader, next Version, date, description string) string {
	out := make([]string, len(lines))
	copy(out, lines)

	out[hdr.ConstantLine] = replaceConstant(out[hdr.ConstantLine], next)
	if hdr.HeaderVersionLine >= 0 {
		out[hdr.HeaderVersionLine] = HeaderVersionLine(next)
	}

	entry := ChangelogLine(next, date, description)
	if hdr.ChangelogLine >= 0 {
		out = insertLines(out, hdr.ChangelogLine+1, entry)
	} else {
		out = insertLines(out, hdr.ConstantLine, ChangelogMarker, entry, "")
	}
	return joinLines(out)
}

// replaceConstant swaps the quoted value and keeps indentation, readonly and trailing comments.
func replaceConstant(line string, v Version) string {
	start := strings.Index(line, ConstantName+"=")
	if start < 0 {
		return ConstantLine(v)
	}
	valueStart := start + len(ConstantName) + 1
	quote := line[valueStart]
	end := strings.IndexByte(line[valueStart+1:], quote)
	if end < 0 {
		return line[:start] + ConstantLine(v)
	}
	return line[:valueStart+1] + v.String() + line[valueStart+1+end:]
}

func rewriteReadme(content string, next Version, date, description string) string {
	lines := splitLines(content)

	versionSet := false
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, ReadmeVersionPrefix):
			lines[i] = ReadmeVersionPrefix + " " + next.String()
			versionSet = true
		case strings.HasPrefix(line, ReadmeLastUpdatedPrefix):
			lines[i] = ReadmeLastUpdatedPrefix + " " + date
		}
	}
	if !versionSet {
		logger.Warn("[WARN] README has no %s line, only the version history was updated\n", ReadmeVersionPrefix)
	}

	bullet := HistoryBullet(next, date, description)

	heading := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == ReadmeHistoryHeading {
			heading = i
			break
		}
	}
	if heading < 0 {
		// Keep a single trailing newline before appending the new section.
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		lines = append(lines, "", ReadmeHistoryHeading, "", bullet, "")
		return joinLines(lines)
	}

	// Append after the last non-blank line of the section.
	last := heading
	for i := heading + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			break
		}
		if strings.TrimSpace(lines[i]) != "" {
			last = i
		}
	}
	if last == heading {
		return joinLines(insertLines(lines, heading+1, "", bullet))
	}
	return joinLines(insertLines(lines, last+1, bullet))
}

func rewriteChangelog(content string, next Version, kind Kind, date, description string) string {
	lines := splitLines(content)
	entry := []string{
		ChangelogHeading(next, date),
		"",
		"### " + ChangelogSection(kind),
		"",
		"- " + description,
		"",
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "## [") {
			return joinLines(insertLines(lines, i, entry...))
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	lines = append(lines, "")
	return joinLines(append(lines, entry...))
}

func backup(path string) (string, error) {
	dst := path + BackupSuffix
	if err := fsutil.CopyFile(path, dst, 0); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	logger.Debug("[DEBUG] Backed up %s to %s\n", path, dst)
	return dst, nil
}

// checkDescription rejects text that would break out of the header comment.
func checkDescription(description string) error {
	if strings.TrimSpace(description) == "" || strings.ContainsAny(description, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidDescription, description)
	}
	return nil
}
