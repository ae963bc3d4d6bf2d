package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/collector"
	"mdm-scriptgen/internal/config"
	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/gitutil"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/render"
	"mdm-scriptgen/internal/scaffold"
	"mdm-scriptgen/internal/version"
)

type generateOptions struct {
	ci      bool
	noGit   bool
	branch  bool
	remote  bool
	private bool
}

// runGenerate is the interactive flow behind `mdm-scriptgen <name>`.
func runGenerate(cmd *cobra.Command, opts *rootOptions, gen *generateOptions, arg string) error {
	name, err := scriptName(arg)
	if err != nil {
		return err
	}

	wd, err := opts.dir()
	if err != nil {
		return err
	}

	mode := render.Standalone
	root := wd
	if repo, err := gitutil.FindRepoRoot(wd); err == nil {
		mode = render.Attached
		logger.Debug("[DEBUG] Inside repository %s\n", repo)
	}
	set := render.ResolvePaths(mode, root, name)
	logger.Info("[INFO] Generating %s in %s mode\n", name, mode)

	// Fail before asking a single question.
	if err := set.CheckTargets(); err != nil {
		return err
	}
	if gen.remote && mode == render.Attached {
		logger.Warn("[WARN] --remote only applies in standalone mode, ignoring it\n")
	}
	if gen.branch && mode == render.Standalone {
		logger.Warn("[WARN] --branch only applies in attached mode, ignoring it\n")
	}

	ctx := opts.envContext(root)

	res, err := collect(cmd, opts.cfg, ctx)
	if err != nil {
		return err
	}

	branch := ""
	if mode == render.Attached && gen.branch && !gen.noGit {
		branch = "feature/" + strcase.ToKebab(name)
		if err := opts.git(root).CheckoutNewBranch(branch); err != nil {
			logger.Warn("[WARN] Could not create branch %s: %v\n", branch, err)
			branch = ""
		} else {
			logger.Info("[INFO] Switched to new branch %s\n", branch)
		}
	}

	in := render.Input{
		Name:        name,
		Description: res.Description,
		Slots:       res.Slots,
		Statics:     res.Statics,
		Ctx:         ctx,
	}
	if err := render.Write(in, set); err != nil {
		return err
	}

	switch mode {
	case render.Standalone:
		if _, err := scaffold.Write(set.Dir, name+".sh", scaffold.Options{Workflow: gen.ci || opts.cfg.CIWorkflow}); err != nil {
			return err
		}
		if !gen.noGit {
			initRepository(opts, gen, set, name)
		}
	case render.Attached:
		if branch != "" {
			commitArtifacts(opts.git(root), set, name)
		}
	}

	printNextSteps(cmd, set, name)
	return nil
}

func collect(cmd *cobra.Command, cfg config.Config, ctx env.Context) (collector.Result, error) {
	var secrets collector.SecretsStore
	store, err := collector.LoadSecretsStore(config.ExpandHome(cfg.SecretsFile))
	if err != nil {
		logger.Warn("[WARN] Cannot read secrets file %s: %v\n", cfg.SecretsFile, err)
	} else {
		secrets = store
	}

	c := &collector.Collector{
		Prompter:      collector.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Secrets:       secrets,
		SecretsFile:   ctx.SecretsFile,
		FirstPosition: cfg.FirstPosition,
		MaxParameters: cfg.MaxParameters,
	}
	res, err := c.Collect()
	if err != nil {
		if errors.Is(err, collector.ErrInputClosed) {
			return res, fmt.Errorf("nothing was written: %w", err)
		}
		return res, err
	}
	return res, nil
}

// initRepository turns a standalone directory into a repository with one
// tagged commit. Every failure degrades to a warning: the files are already written.
func initRepository(opts *rootOptions, gen *generateOptions, set render.ArtifactSet, name string) {
	g := opts.git(set.Dir)
	if !g.HasCommand("git") {
		logger.Warn("[WARN] git not found on PATH, skipping repository setup\n")
		return
	}

	steps := []struct {
		what string
		run  func() error
	}{
		{"git init", g.Init},
		{"git add", func() error { return g.Add() }},
		{"git commit", func() error { return g.Commit(fmt.Sprintf("Initial commit: %s %s", name, set.Version.Tag())) }},
		{"git tag", func() error { return g.Tag(set.Version.Tag(), "Release "+set.Version.String()) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			logger.Warn("[WARN] %s failed: %v\n", s.what, err)
			return
		}
	}
	logger.Info("[INFO] Initialized repository in %s with tag %s\n", set.Dir, set.Version.Tag())

	if !gen.remote {
		return
	}
	if !g.HasCommand("gh") {
		logger.Warn("[WARN] gh not found on PATH, create the remote repository manually\n")
		return
	}
	repo := strcase.ToKebab(name)
	if opts.cfg.GitHubOrg != "" {
		repo = opts.cfg.GitHubOrg + "/" + repo
	}
	if err := g.CreateRemote(repo, gen.private); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	logger.Info("[INFO] Created remote repository %s\n", repo)
}

// commitArtifacts commits only the three generated files, leaving anything
// else the operator had staged or modified alone.
func commitArtifacts(g *gitutil.Client, set render.ArtifactSet, name string) {
	files := make([]string, 0, 3)
	for _, p := range []string{set.ScriptPath, set.ReadmePath, set.ChangelogPath} {
		files = append(files, filepath.Base(p))
	}
	if err := g.Add(files...); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	if err := g.Commit(fmt.Sprintf("Add %s %s", name, version.Initial.Tag())); err != nil {
		logger.Warn("[WARN] %v\n", err)
		return
	}
	logger.Info("[INFO] Committed %s\n", name)
}

func printNextSteps(cmd *cobra.Command, set render.ArtifactSet, name string) {
	out := cmd.OutOrStdout()
	script := filepath.Base(set.ScriptPath)
	fmt.Fprintf(out, "\nCreated %s %s\n", name, set.Version)
	fmt.Fprintf(out, "  script:    %s\n", set.ScriptPath)
	fmt.Fprintf(out, "  readme:    %s\n", set.ReadmePath)
	fmt.Fprintf(out, "  changelog: %s\n", set.ChangelogPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Implement the main logic in %s\n", script)
	fmt.Fprintf(out, "  2. Test locally: sudo ./%s\n", script)
	fmt.Fprintf(out, "  3. Release changes: %s bump %s patch \"<what changed>\"\n", binaryName, script)
}
