// Package env carries the ambient inputs of a run (operator identity, clock,
// working root, secrets location) as an explicit value so the collector,
// renderer and version engine never read them from the process environment.
package env

import (
	"strings"
	"time"
)

// DateLayout is the date format used in headers, changelogs and README fields.
const DateLayout = "2006-01-02"

// Context is injected into every core component.
type Context struct {
	Author string
	Email  string

	// Now is the clock; nil means time.Now.
	Now func() time.Time

	// Root is the directory generation and auto-detection operate in.
	Root string

	// SecretsFile is the secrets store path as written by the operator (may start with "~/").
	SecretsFile string

	// LogDir is the directory generated scripts log to.
	LogDir string
}

// Today returns the current date formatted with DateLayout.
func (c Context) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().Format(DateLayout)
}

// ScriptSecretsPath renders SecretsFile for use inside a generated shell script,
// replacing a leading "~/" with "$HOME/" so the script resolves it at its own runtime.
func (c Context) ScriptSecretsPath() string {
	if strings.HasPrefix(c.SecretsFile, "~/") {
		return "$HOME/" + strings.TrimPrefix(c.SecretsFile, "~/")
	}
	return c.SecretsFile
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
