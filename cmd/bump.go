package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/gitutil"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/version"
)

// kindInit is the pseudo bump kind that adds versioning to a legacy script.
const kindInit = "init"

func newBumpCmd(opts *rootOptions) *cobra.Command {
	var tag bool

	cmd := &cobra.Command{
		Use:   "bump [file] <major|minor|patch|init> <description>",
		Short: "Bump the version of a script and sync its README and CHANGELOG",
		Long: `Bump the SCRIPT_VERSION of a generated script, update its header changelog, README
and CHANGELOG, and keep a .bak copy of the previous script.

Without a file the first versioned .sh under the current directory is used.
"init" adds versioning to a script that has none and requires an explicit file.`,
		Example: `  mdm-scriptgen bump install_printer.sh minor "Add proxy support"
  mdm-scriptgen bump patch "Fix typo in log message"
  mdm-scriptgen bump legacy.sh init "Imported from the old share"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 || len(args) > 3 {
				return fmt.Errorf("%w: bump takes 2 or 3 arguments, got %d\n\n%s", ErrUsage, len(args), cmd.UsageString())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBump(cmd, opts, args, tag)
		},
	}

	cmd.Flags().BoolVar(&tag, "tag", false, "Commit the bumped files and create an annotated release tag")
	return cmd
}

func runBump(cmd *cobra.Command, opts *rootOptions, args []string, tag bool) error {
	var path, kindArg, desc string
	if len(args) == 3 {
		path, kindArg, desc = args[0], args[1], args[2]
	} else {
		kindArg, desc = args[0], args[1]
	}

	desc = strings.TrimSpace(desc)
	if desc == "" {
		return fmt.Errorf("%w: description must not be empty", ErrUsage)
	}

	wd, err := opts.dir()
	if err != nil {
		return err
	}

	// init needs an explicit file: auto-detection only sees versioned scripts.
	isInit := kindArg == kindInit
	var kind version.Kind
	if isInit {
		if path == "" {
			return fmt.Errorf("%w: init requires an explicit file", ErrUsage)
		}
	} else if kind, err = version.ParseKind(kindArg); err != nil {
		return err
	}

	if path == "" {
		first, rest, err := version.Detect(wd, exclusions()...)
		if err != nil {
			return err
		}
		if len(rest) > 0 {
			logger.Warn("[WARN] Found %d versioned scripts, using %s (others: %s)\n", len(rest)+1, first, strings.Join(rest, ", "))
		}
		path = first
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}

	engine := version.Engine{Ctx: opts.envContext(wd)}

	var res version.Result
	if isInit {
		res, err = engine.Init(path, desc)
	} else {
		res, err = engine.Bump(path, kind, desc)
	}
	if err != nil {
		return err
	}

	printBumpResult(cmd, res)

	if tag {
		tagRelease(opts, res, desc)
	}
	return nil
}

func printBumpResult(cmd *cobra.Command, res version.Result) {
	out := cmd.OutOrStdout()
	if res.Previous != nil {
		fmt.Fprintf(out, "%s: %s -> %s\n", res.ScriptPath, res.Previous, res.Current)
	} else {
		fmt.Fprintf(out, "%s: versioned at %s\n", res.ScriptPath, res.Current)
	}
	for _, p := range []struct{ label, path string }{
		{"backup", res.BackupPath},
		{"readme", res.ReadmePath},
		{"changelog", res.ChangelogPath},
	} {
		if p.path != "" {
			fmt.Fprintf(out, "  %-10s %s\n", p.label+":", p.path)
		}
	}
}

// tagRelease commits the bumped files and tags the commit. Failures are warnings:
// the version files are already consistent on disk.
func tagRelease(opts *rootOptions, res version.Result, desc string) {
	repo, prefix, err := tagScope(res.ScriptPath)
	if err != nil {
		logger.Warn("[WARN] Not tagging: %v\n", err)
		return
	}

	g := opts.git(repo)
	if !g.HasCommand("git") {
		logger.Warn("[WARN] git not found on PATH, not tagging\n")
		return
	}

	var files []string
	for _, p := range []string{res.ScriptPath, res.ReadmePath, res.ChangelogPath} {
		if p == "" {
			continue
		}
		rel, err := filepath.Rel(repo, p)
		if err != nil {
			rel = p
		}
		files = append(files, rel)
	}

	name := prefix + res.Current.Tag()
	if err := g.Add(files...); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	if err := g.Commit(fmt.Sprintf("Release %s: %s", name, desc)); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	if err := g.Tag(name, desc); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	logger.Info("[INFO] Tagged %s\n", name)
}

// tagScope returns the repository holding script and the tag prefix its
// releases use: none when the script owns the repository (standalone), the
// script name plus "-" when it shares one with other scripts (attached).
func tagScope(script string) (string, string, error) {
	dir := filepath.Dir(script)
	repo, err := gitutil.FindRepoRoot(dir)
	if err != nil {
		return "", "", err
	}
	if filepath.Clean(repo) == filepath.Clean(dir) && version.FindCompanions(script).Readme == filepath.Join(dir, "README.md") {
		return repo, "", nil
	}
	name := strings.TrimSuffix(filepath.Base(script), filepath.Ext(script))
	return repo, name + "-", nil
}
