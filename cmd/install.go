package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/installer"
	"mdm-scriptgen/internal/logger"
	"mdm-scriptgen/internal/state"
)

// installFlags are shared by install and uninstall.
type installFlags struct {
	dir string
}

func (f installFlags) dirs() []string {
	if f.dir != "" {
		return []string{f.dir}
	}
	return installer.DefaultDirs()
}

func (o *rootOptions) statePath() string {
	return filepath.Join(o.stateDir, "state.json")
}

func (o *rootOptions) newInstaller(f installFlags) (*installer.Installer, error) {
	st, err := state.LoadState(o.statePath())
	if err != nil {
		return nil, err
	}
	return &installer.Installer{
		Dirs:  f.dirs(),
		State: st,
		Today: env.Context{Now: o.now}.Today(),
	}, nil
}

func newInstallCmd(opts *rootOptions) *cobra.Command {
	var flags installFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Copy this binary to /usr/local/bin (or ~/bin) and record it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate running binary: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(src); err == nil {
				src = resolved
			}

			inst, err := opts.newInstaller(flags)
			if err != nil {
				return err
			}
			dst, err := inst.Install(src, binaryName, Version)
			if err != nil {
				return err
			}
			if err := state.SaveState(opts.statePath(), inst.State); err != nil {
				return err
			}
			logger.Debug("[DEBUG] Recorded %s in %s\n", dst, opts.statePath())
			fmt.Fprintln(cmd.OutOrStdout(), dst)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Install into this directory only")
	return cmd
}

func newUninstallCmd(opts *rootOptions) *cobra.Command {
	var flags installFlags

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed binary",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			inst, err := opts.newInstaller(flags)
			if err != nil {
				return err
			}
			uerr := inst.Uninstall(binaryName)
			if err := state.SaveState(opts.statePath(), inst.State); err != nil {
				return err
			}
			return uerr
		},
	}

	cmd.Flags().StringVar(&flags.dir, "dir", "", "Look for the binary in this directory only")
	return cmd
}
