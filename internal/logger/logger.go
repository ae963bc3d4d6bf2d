// Package logger prints the operator-facing progress of generate, bump and
// check runs. Every message carries its own "[LEVEL]" prefix and newline.
package logger

import (
	"io"

	"github.com/fatih/color"
)

// Info reports a completed step: a file written, a version bumped, a tag created.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn reports something the run worked around: git or gh missing, an
// ambiguous auto-detect, a rejected parameter label that will be asked again.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error reports the failure that ends the run.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug prints external commands and skipped inputs. It is a no-op until
// Init(true), so library code and tests may call it freely.
var Debug = func(format string, a ...any) {}

// Init switches debug output on or off; the root command calls it from the --debug flag.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
		return
	}
	Debug = func(format string, a ...any) {}
}

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	color.Output = w
}
