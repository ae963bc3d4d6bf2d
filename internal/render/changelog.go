package render

import (
	"fmt"
	"strings"

	"mdm-scriptgen/internal/scriptdef"
	"mdm-scriptgen/internal/version"
)

// Changelog builds the initial CHANGELOG with a single "Added" entry.
func Changelog(in Input) *Document {
	var intro strings.Builder
	intro.WriteString("# Changelog\n\n")
	fmt.Fprintf(&intro, "All notable changes to `%s` are documented in this file.\n", in.scriptFile())
	intro.WriteString("The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/) ")
	intro.WriteString("and this project follows [Semantic Versioning](https://semver.org/).\n\n")

	var entry strings.Builder
	entry.WriteString(version.ChangelogHeading(version.Initial, in.Ctx.Today()) + "\n\n")
	entry.WriteString("### Added\n\n")
	fmt.Fprintf(&entry, "- Initial release of `%s`\n", in.scriptFile())
	if len(in.Slots) > 0 {
		ids := make([]string, 0, len(in.Slots))
		for _, s := range in.Slots {
			ids = append(ids, s.Identifier)
		}
		fmt.Fprintf(&entry, "- Jamf Pro parameters: %s\n", strings.Join(ids, ", "))
	}
	if len(in.Statics) > 0 {
		names := make([]string, 0, len(in.Statics))
		for _, v := range in.Statics {
			names = append(names, v.Name)
		}
		fmt.Fprintf(&entry, "- Static configuration: %s\n", strings.Join(names, ", "))
	}
	if scriptdef.HasSecrets(in.Slots) {
		fmt.Fprintf(&entry, "- Secrets management: secret parameters fall back to `%s` for local testing\n", in.Ctx.SecretsFile)
	}

	d := &Document{}
	d.Add("intro", intro.String())
	d.Add("entry", entry.String())
	return d
}
