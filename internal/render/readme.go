package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mdm-scriptgen/internal/scriptdef"
	"mdm-scriptgen/internal/version"
)

// README section names.
const (
	SectionReadmeTitle      = "title"
	SectionReadmeStatic     = "static-configuration"
	SectionReadmeParameters = "parameters"
	SectionReadmeTesting    = "local-testing"
	SectionReadmeVersioning = "versioning"
	SectionReadmeHistory    = "version-history"
)

// placeholderRow is the single table row shown when a table has no entries.
const placeholderRow = "| - | None | - |\n"

// Readme builds the companion README.
func Readme(in Input) *Document {
	d := &Document{}
	d.Add(SectionReadmeTitle, readmeTitle(in))
	d.Add(SectionReadmeStatic, readmeStatics(in.Statics))
	d.Add(SectionReadmeParameters, readmeParameters(in.Slots))
	d.Add(SectionReadmeTesting, readmeTesting(in))
	d.Add(SectionReadmeVersioning, readmeVersioning(in))
	d.Add(SectionReadmeHistory, readmeHistory(in))
	return d
}

// Title turns a script name like "install_chrome" into "Install Chrome".
func Title(name string) string {
	words := strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.English).String(words)
}

func readmeTitle(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title(in.Name))
	fmt.Fprintf(&b, "%s %s\n", version.ReadmeVersionPrefix, version.Initial)
	fmt.Fprintf(&b, "%s %s\n", version.ReadmeLastUpdatedPrefix, in.Ctx.Today())
	if in.Ctx.Email != "" {
		fmt.Fprintf(&b, "**Author:** %s <%s>\n\n", in.Ctx.Author, in.Ctx.Email)
	} else {
		fmt.Fprintf(&b, "**Author:** %s\n\n", in.Ctx.Author)
	}
	b.WriteString("## Description\n\n")
	fmt.Fprintf(&b, "%s\n\n", in.Description)
	return b.String()
}

func readmeStatics(statics []scriptdef.StaticVariable) string {
	var b strings.Builder
	b.WriteString("## Static Configuration\n\n")
	b.WriteString("| Variable | Value | Description |\n")
	b.WriteString("|----------|-------|-------------|\n")
	if len(statics) == 0 {
		b.WriteString(placeholderRow)
	}
	for _, v := range statics {
		fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", v.Name, cell(v.Value), cell(v.Description))
	}
	b.WriteString("\n")
	return b.String()
}

func readmeParameters(slots []scriptdef.ParameterSlot) string {
	var b strings.Builder
	b.WriteString("## Parameters\n\n")
	b.WriteString("| Parameter | Label | Default |\n")
	b.WriteString("|-----------|-------|---------|\n")
	if len(slots) == 0 {
		b.WriteString(placeholderRow)
	}
	for _, s := range slots {
		def := "`" + cell(s.DefaultValue) + "`"
		switch {
		case s.IsSecret:
			def = fmt.Sprintf("_secret, local override `%s`_", scriptdef.SecretOverrideName(s.Identifier))
		case s.DefaultValue == "":
			def = "_none_"
		}
		fmt.Fprintf(&b, "| `$%d` | %s | %s |\n", s.Position, cell(s.Label), def)
	}
	b.WriteString("\n")
	return b.String()
}

func readmeTesting(in Input) string {
	var b strings.Builder
	b.WriteString("## Local Testing\n\n")
	step := 1
	if scriptdef.HasSecrets(in.Slots) {
		fmt.Fprintf(&b, "%d. Define the secret overrides in `%s`:\n\n", step, in.Ctx.SecretsFile)
		b.WriteString("   ```bash\n")
		for _, s := range in.Slots {
			if s.IsSecret {
				fmt.Fprintf(&b, "   export %s=\"...\"\n", scriptdef.SecretOverrideName(s.Identifier))
			}
		}
		b.WriteString("   ```\n\n")
		step++
	}
	fmt.Fprintf(&b, "%d. Make the script executable: `chmod +x %s`\n", step, in.scriptFile())
	fmt.Fprintf(&b, "%d. Run it with the reserved Jamf parameters as placeholders:\n\n", step+1)
	b.WriteString("   ```bash\n")
	fmt.Fprintf(&b, "   sudo ./%s / \"$(hostname)\" \"$(whoami)\"", in.scriptFile())
	for _, s := range in.Slots {
		if !s.IsSecret {
			fmt.Fprintf(&b, " %q", s.DefaultValue)
		} else {
			b.WriteString(` ""`)
		}
	}
	b.WriteString("\n   ```\n\n")
	fmt.Fprintf(&b, "%d. Check the log: `%s/%s.log`\n\n", step+2, strings.TrimSuffix(in.Ctx.LogDir, "/"), in.Name)
	return b.String()
}

func readmeVersioning(in Input) string {
	var b strings.Builder
	b.WriteString("## Versioning\n\n")
	b.WriteString("This script follows [Semantic Versioning](https://semver.org/):\n\n")
	b.WriteString("- **MAJOR**: incompatible changes to parameters or behavior\n")
	b.WriteString("- **MINOR**: new functionality that keeps existing parameters working\n")
	b.WriteString("- **PATCH**: bug fixes\n\n")
	b.WriteString("Bump the version with:\n\n")
	b.WriteString("```bash\n")
	fmt.Fprintf(&b, "mdm-scriptgen bump %s patch \"Describe the fix\"\n", in.scriptFile())
	b.WriteString("```\n\n")
	b.WriteString("The bump updates the script header, the version constant, this README and the CHANGELOG together.\n\n")
	return b.String()
}

func readmeHistory(in Input) string {
	var b strings.Builder
	b.WriteString(version.ReadmeHistoryHeading + "\n\n")
	b.WriteString(version.HistoryBullet(version.Initial, in.Ctx.Today(), "Initial release") + "\n")
	return b.String()
}

// cell escapes pipes so a value cannot break a markdown table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
