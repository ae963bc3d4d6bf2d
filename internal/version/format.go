package version

import "fmt"

// Line shapes shared by the renderer (which writes them) and the engine (which
// finds and rewrites them). Changing any of these breaks bump and init on
// previously generated files.
const (
	// ConstantName is the runtime version constant written into scripts.
	ConstantName = "SCRIPT_VERSION"

	// HeaderVersionPrefix starts the version line of the script header comment.
	HeaderVersionPrefix = "# VERSION:"

	// ChangelogMarker is the comment line above the script's reverse-chronological changelog.
	ChangelogMarker = "# CHANGELOG"

	ReadmeVersionPrefix     = "**Version:**"
	ReadmeLastUpdatedPrefix = "**Last Updated:**"
	ReadmeHistoryHeading    = "## Version History"
)

// ConstantLine is the declaration that marks a script as versioned.
func ConstantLine(v Version) string {
	return fmt.Sprintf("%s=%q", ConstantName, v.String())
}

// HeaderVersionLine is the "# VERSION: x.y.z" header comment.
func HeaderVersionLine(v Version) string {
	return HeaderVersionPrefix + " " + v.String()
}

// ChangelogLine is one script header changelog entry.
func ChangelogLine(v Version, date, description string) string {
	return fmt.Sprintf("# %s - %s - %s", v, date, description)
}

// HistoryBullet is one README version history entry.
func HistoryBullet(v Version, date, description string) string {
	return fmt.Sprintf("- **%s** (%s): %s", v, date, description)
}

// ChangelogHeading opens a release entry in CHANGELOG.md.
func ChangelogHeading(v Version, date string) string {
	return fmt.Sprintf("## [%s] - %s", v, date)
}

// ChangelogSection names the CHANGELOG.md subsection a bump of kind is filed under.
func ChangelogSection(kind Kind) string {
	switch kind {
	case Major:
		return "Changed"
	case Minor:
		return "Added"
	default:
		return "Fixed"
	}
}
