package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/gitutil"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/version"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var noTags bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Verify that script, README and release tag agree on the version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := opts.dir()
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
				if !filepath.IsAbs(path) {
					path = filepath.Join(wd, path)
				}
			} else {
				first, rest, err := version.Detect(wd, exclusions()...)
				if err != nil {
					return err
				}
				if len(rest) > 0 {
					logger.Warn("[WARN] Found %d versioned scripts, checking %s\n", len(rest)+1, first)
				}
				path = first
			}

			var tag, tagVersion string
			if !noTags {
				tag, tagVersion = latestTag(opts, path)
			}

			rep, err := version.Check(path, tagVersion)
			if err != nil && !errors.Is(err, version.ErrInconsistent) {
				return err
			}
			printReport(cmd, rep, tag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Do not compare against git tags")
	return cmd
}

// latestTag returns the newest release tag of the script and its version
// part. Both are empty when the script is not in a repository, git is
// missing, or nothing was tagged yet.
func latestTag(opts *rootOptions, script string) (string, string) {
	repo, prefix, err := tagScope(script)
	if err != nil {
		logger.Debug("[DEBUG] No tag comparison for %s: %v\n", script, err)
		return "", ""
	}
	g := opts.git(repo)
	if !g.HasCommand("git") {
		return "", ""
	}
	tags, err := g.Tags()
	if err != nil {
		logger.Warn("[WARN] Cannot list tags: %v\n", err)
		return "", ""
	}
	tag := gitutil.LatestTag(tags, prefix)
	return tag, strings.TrimPrefix(tag, prefix)
}

func printReport(cmd *cobra.Command, rep version.Report, tag string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "script:    %s (%s)\n", rep.Script, rep.ScriptPath)
	if rep.Readme != nil {
		fmt.Fprintf(out, "readme:    %s (%s)\n", rep.Readme, rep.ReadmePath)
	}
	if rep.Tag != nil {
		fmt.Fprintf(out, "tag:       %s\n", tag)
	}
}
