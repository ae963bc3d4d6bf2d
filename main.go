package main

import (
	"os"

	"mdm-scriptgen/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution,
// and turns its result into the process exit status (0 on success, 1 on any failure).
//
// mdm-scriptgen is a generator for macOS device-management shell scripts that:
//   - Interactively collects the positional parameters ($4 and up) and static variables of a script
//   - Renders the script, a README and a CHANGELOG from those answers
//   - Creates a standalone git repository (with pre-commit secret scanning and optional CI)
//     or attaches the files to the repository it runs in
//   - Bumps script versions later, keeping the version constant, header changelog,
//     README and CHANGELOG consistent, with a .bak copy of the previous script
//
// Error handling strategy:
//   - Preconditions (existing targets, unversioned or malformed scripts) are checked before any write
//   - git and gh failures after the files are written are logged as warnings and never abort the run
func main() {
	os.Exit(cmd.Execute())
}
