package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/collector"
	"mdm-scriptgen/internal/config"
	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/gitutil"
	"mdm-scriptgen/internal/installer"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/render"
	"mdm-scriptgen/internal/version"
)

// Version of the tool itself, overridden at build time with
// -ldflags "-X mdm-scriptgen/cmd.Version=x.y.z".
var Version = "1.0.0"

// binaryName is the installed command name.
const binaryName = "mdm-scriptgen"

// ErrUsage marks an invocation with the wrong shape.
var ErrUsage = errors.New("invalid usage")

// deps are the process-level collaborators a command reaches for. Tests swap
// them for a temp directory, a fixed clock and a fake git runner.
type deps struct {
	now      func() time.Time
	runner   gitutil.Runner
	workDir  string
	stateDir string
}

func defaultDeps() deps {
	return deps{
		now:      time.Now,
		runner:   gitutil.ExecRunner{},
		stateDir: config.DefaultDir(),
	}
}

// rootOptions hold the persistent flags and what PersistentPreRunE loads from them.
type rootOptions struct {
	deps

	debug      bool
	configPath string
	cfg        config.Config
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	opts := &rootOptions{deps: d}
	gen := &generateOptions{}

	root := &cobra.Command{
		Use:   binaryName + " <name>",
		Short: "Generate and version macOS MDM scripts",
		Long: `Generate a versioned Jamf Pro style shell script with its README and CHANGELOG,
then keep every version reference in sync with "bump".

Inside a git repository the files are written next to each other (attached mode);
anywhere else a new <name>/ repository is created (standalone mode).`,
		Example: `  mdm-scriptgen install_printer
  mdm-scriptgen bump install_printer.sh patch "Fix driver path"
  mdm-scriptgen bump minor "Add proxy support"`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,

		// PersistentPreRunE runs before every command: logger first, then config.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.Init(opts.debug)
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, gen, args[0])
		},
	}

	root.SetVersionTemplate(binaryName + " {{.Version}}\n")

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default "+config.DefaultPath()+")")

	root.Flags().BoolVar(&gen.ci, "ci", false, "Add a shellcheck GitHub Actions workflow (standalone mode)")
	root.Flags().BoolVar(&gen.noGit, "no-git", false, "Skip every git operation")
	root.Flags().BoolVar(&gen.branch, "branch", false, "Create and commit on a feature/<name> branch (attached mode)")
	root.Flags().BoolVar(&gen.remote, "remote", false, "Create a GitHub repository with gh and push (standalone mode)")
	root.Flags().BoolVar(&gen.private, "private", false, "Make the --remote repository private")

	root.AddCommand(
		newBumpCmd(opts),
		newCheckCmd(opts),
		newCatalogCmd(),
		newInstallCmd(opts),
		newUninstallCmd(opts),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("[ERROR] %v\n", err)
		if h := hint(err); h != "" {
			logger.Warn("[WARN] %s\n", h)
		}
		return 1
	}
	return 0
}

func (o *rootOptions) load() error {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	logger.Debug("[DEBUG] Loaded config from %s\n", path)
	o.cfg = cfg
	return nil
}

// dir is the directory commands operate in.
func (o *rootOptions) dir() (string, error) {
	if o.workDir != "" {
		return o.workDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}

func (o *rootOptions) git(dir string) *gitutil.Client {
	return &gitutil.Client{Runner: o.runner, Dir: dir}
}

// envContext resolves the operator identity: config first, then git config.
func (o *rootOptions) envContext(root string) env.Context {
	ctx := env.Context{
		Author:      o.cfg.Author,
		Email:       o.cfg.Email,
		Now:         o.now,
		Root:        root,
		SecretsFile: o.cfg.SecretsFile,
		LogDir:      o.cfg.LogDir,
	}

	if ctx.Author == "" || ctx.Email == "" {
		g := o.git(root)
		if g.HasCommand("git") {
			if ctx.Author == "" {
				ctx.Author = g.ConfigValue("user.name")
			}
			if ctx.Email == "" {
				ctx.Email = g.ConfigValue("user.email")
			}
		}
	}
	if ctx.Author == "" {
		logger.Warn("[WARN] No author configured; set author in %s or git config user.name\n", config.DefaultPath())
		ctx.Author = "Unknown"
	}
	if ctx.Email == "" {
		ctx.Email = "unknown@example.com"
	}
	return ctx
}

// exclusions are file names auto-detection must never pick: the running binary.
func exclusions() []string {
	exe, err := os.Executable()
	if err != nil {
		return []string{binaryName}
	}
	return []string{filepath.Base(exe), binaryName}
}

// hint maps precondition failures to the command that fixes them.
func hint(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "run '" + binaryName + " --help' for usage"
	case errors.Is(err, render.ErrTargetExists):
		return "choose another name, or use '" + binaryName + " bump' to change the existing script"
	case errors.Is(err, version.ErrUnversioned):
		return "add versioning first: " + binaryName + ` bump <file> init "<description>"`
	case errors.Is(err, version.ErrAlreadyVersioned):
		return "the script is versioned already; bump it with major, minor or patch"
	case errors.Is(err, version.ErrAmbiguousVersion):
		return "keep exactly one " + version.ConstantName + " line in the script"
	case errors.Is(err, version.ErrMalformedVersion):
		return "fix the " + version.ConstantName + ` line by hand; expected "x.y.z"`
	case errors.Is(err, version.ErrInvalidDescription):
		return "quote the description as one line; use the CHANGELOG for longer notes"
	case errors.Is(err, version.ErrInvalidKind):
		return "use one of: major, minor, patch (or init with an explicit file)"
	case errors.Is(err, version.ErrNoCandidates):
		return "pass the script path explicitly"
	case errors.Is(err, version.ErrInconsistent):
		return "run '" + binaryName + " bump' to bring every file to the next version"
	case errors.Is(err, installer.ErrNotInstalled):
		return "nothing to remove"
	case errors.Is(err, collector.ErrInputClosed):
		return "the session needs an interactive terminal or a complete answer stream on stdin"
	case errors.Is(err, fs.ErrNotExist):
		return "check the file path"
	}
	return ""
}

// scriptName strips a trailing .sh and rejects names that are not a single path element.
func scriptName(arg string) (string, error) {
	name := strings.TrimSuffix(strings.TrimSpace(arg), ".sh")
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, "-") {
		return "", fmt.Errorf("%w: %q is not a valid script name", ErrUsage, arg)
	}
	return name, nil
}
