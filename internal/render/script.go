package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/scriptdef"
	"mdm-scriptgen/internal/version"
)

// Script section names, in the order they appear in a generated script.
const (
	SectionHeader       = "header"
	SectionSecrets      = "secrets"
	SectionStatic       = "static"
	SectionParameters   = "parameters"
	SectionLogging      = "logging"
	SectionParameterLog = "parameter-log"
	SectionFooter       = "footer"
)

// MaskToken replaces secret values in generated log lines.
const MaskToken = "********"

// Variables every generated script assigns itself.
const (
	secretsFileVar = "SECRETS_FILE"
	logFileVar     = "LOG_FILE"
)

// ReservedNames lists the variables a generated script declares on its own.
// Parameters and static variables must not reuse them.
func ReservedNames() []string {
	return []string{version.ConstantName, secretsFileVar, logFileVar}
}

// Input is everything needed to render one artifact set.
type Input struct {
	// Name is the script name without extension.
	Name        string
	Description string
	Slots       []scriptdef.ParameterSlot
	Statics     []scriptdef.StaticVariable
	Ctx         env.Context
}

func (in Input) scriptFile() string {
	return in.Name + ".sh"
}

// Script builds the generated shell script.
func Script(in Input) *Document {
	d := &Document{}
	d.Add(SectionHeader, scriptHeader(in))
	d.Add(SectionSecrets, scriptSecrets(in))
	d.Add(SectionStatic, scriptStatics(in.Statics))
	d.Add(SectionParameters, scriptParameters(in.Slots))
	d.Add(SectionLogging, scriptLogging(in))
	d.Add(SectionParameterLog, scriptParameterLog(in.Slots))
	d.Add(SectionFooter, scriptFooter(in))
	return d
}

func scriptHeader(in Input) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# SCRIPT: %s\n", in.scriptFile())
	fmt.Fprintf(&b, "%s\n", version.HeaderVersionLine(version.Initial))
	fmt.Fprintf(&b, "# AUTHOR: %s\n", in.Ctx.Author)
	fmt.Fprintf(&b, "# EMAIL: %s\n", in.Ctx.Email)
	fmt.Fprintf(&b, "# DATE: %s\n", in.Ctx.Today())
	fmt.Fprintf(&b, "# Description: %s\n", in.Description)
	b.WriteString("#\n")
	b.WriteString("# PARAMETERS:\n")
	if len(in.Slots) == 0 {
		b.WriteString("#   None\n")
	}
	for _, s := range in.Slots {
		if s.IsSecret {
			fmt.Fprintf(&b, "#   $%d - %s (%s, secret)\n", s.Position, s.Label, s.Identifier)
		} else {
			fmt.Fprintf(&b, "#   $%d - %s (%s, default: %s)\n", s.Position, s.Label, s.Identifier, s.DefaultValue)
		}
	}
	b.WriteString("#\n")
	b.WriteString(version.ChangelogMarker + "\n")
	b.WriteString(version.ChangelogLine(version.Initial, in.Ctx.Today(), "Initial release") + "\n")
	b.WriteString("#\n\n")
	b.WriteString(version.ConstantLine(version.Initial) + "\n\n")
	return b.String()
}

func scriptSecrets(in Input) string {
	var b strings.Builder
	b.WriteString("# Local testing: Jamf Pro passes real values as parameters, a local run reads the secrets file.\n")
	fmt.Fprintf(&b, "%s=\"%s\"\n", secretsFileVar, in.Ctx.ScriptSecretsPath())
	fmt.Fprintf(&b, "if [[ -f \"$%s\" ]]; then\n", secretsFileVar)
	b.WriteString("    # shellcheck source=/dev/null\n")
	fmt.Fprintf(&b, "    source \"$%s\"\n", secretsFileVar)
	b.WriteString("fi\n\n")
	return b.String()
}

func scriptStatics(statics []scriptdef.StaticVariable) string {
	if len(statics) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Static configuration\n")
	for _, v := range statics {
		value := v.Value
		if v.SourceKind == scriptdef.SourceLiteral {
			value = quoteLiteral(value)
		}
		fmt.Fprintf(&b, "%s=\"%s\" # %s\n", v.Name, value, v.Description)
	}
	b.WriteString("\n")
	return b.String()
}

func scriptParameters(slots []scriptdef.ParameterSlot) string {
	if len(slots) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Jamf Pro parameters ($1-$3 are reserved)\n")
	for _, s := range slots {
		if s.IsSecret {
			fmt.Fprintf(&b, "%s=\"${%d:-${%s:-}}\"\n", s.Identifier, s.Position, scriptdef.SecretOverrideName(s.Identifier))
		} else {
			fmt.Fprintf(&b, "%s=\"${%d:-%s}\"\n", s.Identifier, s.Position, quoteDefault(s.DefaultValue))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func scriptLogging(in Input) string {
	logFile := filepath.Join(in.Ctx.LogDir, in.Name+".log")

	var b strings.Builder
	fmt.Fprintf(&b, "%s=\"%s\"\n\n", logFileVar, logFile)
	b.WriteString("log() {\n")
	fmt.Fprintf(&b, "    echo \"$(date '+%%Y-%%m-%%d %%H:%%M:%%S') [%s] $*\" | tee -a \"$%s\"\n", in.Name, logFileVar)
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "log \"Starting %s v${%s}\"\n", in.Name, version.ConstantName)
	return b.String()
}

// scriptParameterLog logs every slot; secrets only ever show MaskToken.
func scriptParameterLog(slots []scriptdef.ParameterSlot) string {
	var b strings.Builder
	for _, s := range slots {
		label := quoteLiteral(s.Label)
		if s.IsSecret {
			fmt.Fprintf(&b, "log \"%s (%s): %s\"\n", label, s.Identifier, MaskToken)
		} else {
			fmt.Fprintf(&b, "log \"%s (%s): ${%s}\"\n", label, s.Identifier, s.Identifier)
		}
	}
	return b.String()
}

func scriptFooter(in Input) string {
	var b strings.Builder
	b.WriteString("\n# Script logic goes here\n\n")
	fmt.Fprintf(&b, "log \"Completed %s\"\n", in.Name)
	b.WriteString("exit 0\n")
	return b.String()
}

// quoteLiteral escapes s for use inside a double-quoted shell string.
func quoteLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return r.Replace(s)
}

// quoteDefault escapes s for the fallback part of a "${N:-...}" expansion.
func quoteDefault(s string) string {
	return strings.ReplaceAll(quoteLiteral(s), "}", `\}`)
}
