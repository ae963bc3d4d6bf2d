package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/installer"
	"mdm-scriptgen/internal/render"
	"mdm-scriptgen/internal/version"
)

type call struct {
	dir  string
	args string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string
	onPath  map[string]bool
}

func (f *fakeRunner) Run(dir, name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call{dir: dir, args: key})
	out, ok := f.outputs[key]
	if !ok && strings.HasPrefix(key, "git config --get") {
		return nil, errors.New("exit status 1")
	}
	return []byte(out), nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.onPath[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) ran(args string) bool {
	for _, c := range f.calls {
		if c.args == args {
			return true
		}
	}
	return false
}

func testDeps(t *testing.T, dir string, r *fakeRunner) deps {
	t.Helper()

	return deps{
		now:      env.FixedClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
		runner:   r,
		workDir:  dir,
		stateDir: t.TempDir(),
	}
}

func execute(t *testing.T, d deps, stdin string, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(d)
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", filepath.Join(d.stateDir, "config.yaml")))

	err := root.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// initRepo makes dir look like a repository root to FindRepoRoot.
func initRepo(t *testing.T, dir string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
}

const printerAnswers = "Installs the office printer\n" +
	"Printer Name\nn\nHP LaserJet\n" +
	"API Token\ny\n" +
	"\n" +
	"n\n"

func TestVersionFlag(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		t.Run(flag, func(t *testing.T) {
			out, err := execute(t, testDeps(t, t.TempDir(), &fakeRunner{}), "", flag)
			require.NoError(t, err)
			assert.Equal(t, "mdm-scriptgen "+Version+"\n", out)
		})
	}
}

func TestGenerateRequiresName(t *testing.T) {
	_, err := execute(t, testDeps(t, t.TempDir(), &fakeRunner{}), "")
	require.Error(t, err)

	_, err = execute(t, testDeps(t, t.TempDir(), &fakeRunner{}), "", "../escape")
	require.ErrorIs(t, err, ErrUsage)
}

func TestGenerateStandaloneThenBump(t *testing.T) {
	work := t.TempDir()
	r := &fakeRunner{}
	d := testDeps(t, work, r)

	out, err := execute(t, d, printerAnswers, "install_printer.sh")
	require.NoError(t, err)
	assert.Contains(t, out, "Next steps:")

	dir := filepath.Join(work, "install_printer")
	script := readFile(t, filepath.Join(dir, "install_printer.sh"))
	assert.Contains(t, script, `SCRIPT_VERSION="1.0.0"`)
	assert.Contains(t, script, `PRINTER_NAME="${4:-HP LaserJet}"`)
	assert.Contains(t, script, `API_TOKEN="${5:-${LOCAL_API_TOKEN:-}}"`)
	assert.Contains(t, script, "# DATE: 2026-03-14")
	assert.Contains(t, script, "# AUTHOR: Unknown")

	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.FileExists(t, filepath.Join(dir, "CHANGELOG.md"))
	assert.FileExists(t, filepath.Join(dir, ".gitignore"))
	assert.FileExists(t, filepath.Join(dir, ".pre-commit-config.yaml"))
	assert.NoFileExists(t, filepath.Join(dir, ".github", "workflows", "shellcheck.yml"))

	// git is not on PATH: nothing beyond the lookup is attempted.
	assert.Empty(t, r.calls)

	bumpDeps := d
	bumpDeps.workDir = dir
	out, err = execute(t, bumpDeps, "", "bump", "patch", "Fix queue name")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0 -> 1.0.1")

	script = readFile(t, filepath.Join(dir, "install_printer.sh"))
	assert.Contains(t, script, `SCRIPT_VERSION="1.0.1"`)
	assert.Contains(t, script, "# 1.0.1 - 2026-03-14 - Fix queue name")
	assert.Contains(t, readFile(t, filepath.Join(dir, "install_printer.sh.bak")), `SCRIPT_VERSION="1.0.0"`)

	readme := readFile(t, filepath.Join(dir, "README.md"))
	assert.Contains(t, readme, "**Version:** 1.0.1")
	assert.Contains(t, readme, "- **1.0.1** (2026-03-14): Fix queue name")

	changelog := readFile(t, filepath.Join(dir, "CHANGELOG.md"))
	assert.Contains(t, changelog, "## [1.0.1] - 2026-03-14")
	assert.Contains(t, changelog, "### Fixed")

	out, err = execute(t, bumpDeps, "", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	readmePath := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readmePath, []byte(strings.Replace(readme, "**Version:** 1.0.1", "**Version:** 0.9.0", 1)), 0o644))
	_, err = execute(t, bumpDeps, "", "check", "install_printer.sh")
	require.ErrorIs(t, err, version.ErrInconsistent)
}

func TestGenerateCIWorkflow(t *testing.T) {
	work := t.TempDir()

	_, err := execute(t, testDeps(t, work, &fakeRunner{}), "Desc\n\nn\n", "wifi_setup", "--ci", "--no-git")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(work, "wifi_setup", ".github", "workflows", "shellcheck.yml"))
}

func TestGenerateStandaloneGit(t *testing.T) {
	work := t.TempDir()
	r := &fakeRunner{
		onPath: map[string]bool{"git": true},
		outputs: map[string]string{
			"git config --get user.name":  "Jane Admin\n",
			"git config --get user.email": "jane@example.com\n",
		},
	}

	_, err := execute(t, testDeps(t, work, r), "Desc\n\nn\n", "wifi_setup", "--remote")
	require.NoError(t, err)

	assert.True(t, r.ran("git init"))
	assert.True(t, r.ran("git add -A"))
	assert.True(t, r.ran("git commit -m Initial commit: wifi_setup v1.0.0"))
	assert.True(t, r.ran("git tag -a v1.0.0 -m Release 1.0.0"))
	// gh is missing, so --remote only warns.
	for _, c := range r.calls {
		assert.NotContains(t, c.args, "gh ")
	}

	script := readFile(t, filepath.Join(work, "wifi_setup", "wifi_setup.sh"))
	assert.Contains(t, script, "# AUTHOR: Jane Admin")
	assert.Contains(t, script, "# EMAIL: jane@example.com")
}

func TestGenerateAttachedOnBranch(t *testing.T) {
	work := t.TempDir()
	initRepo(t, work)
	r := &fakeRunner{onPath: map[string]bool{"git": true}}
	d := testDeps(t, work, r)

	_, err := execute(t, d, printerAnswers, "install_printer", "--branch")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(work, "install_printer.sh"))
	assert.FileExists(t, filepath.Join(work, "install_printer_README.md"))
	assert.FileExists(t, filepath.Join(work, "install_printer_CHANGELOG.md"))
	assert.NoDirExists(t, filepath.Join(work, "install_printer"))

	assert.True(t, r.ran("git checkout -b feature/install-printer"))
	assert.True(t, r.ran("git add -- install_printer.sh install_printer_README.md install_printer_CHANGELOG.md"))
	assert.True(t, r.ran("git commit -m Add install_printer v1.0.0"))
	assert.False(t, r.ran("git init"))

	// A second run must stop before asking anything.
	_, err = execute(t, d, "", "install_printer")
	require.ErrorIs(t, err, render.ErrTargetExists)
}

func TestBumpTagAttached(t *testing.T) {
	work := t.TempDir()
	initRepo(t, work)
	d := testDeps(t, work, &fakeRunner{})

	_, err := execute(t, d, "Desc\n\nn\n", "install_printer")
	require.NoError(t, err)

	r := &fakeRunner{onPath: map[string]bool{"git": true}}
	d.runner = r
	_, err = execute(t, d, "", "bump", "install_printer.sh", "minor", "Add duplex", "--tag")
	require.NoError(t, err)

	assert.True(t, r.ran("git add -- install_printer.sh install_printer_README.md install_printer_CHANGELOG.md"))
	assert.True(t, r.ran("git commit -m Release install_printer-v1.1.0: Add duplex"))
	assert.True(t, r.ran("git tag -a install_printer-v1.1.0 -m Add duplex"))
}

func TestBumpArguments(t *testing.T) {
	work := t.TempDir()
	legacy := filepath.Join(work, "legacy.sh")
	original := "#!/bin/bash\n# Description: Old helper\necho hi\n"
	require.NoError(t, os.WriteFile(legacy, []byte(original), 0o755))

	tcs := map[string]struct {
		args []string
		want error
	}{
		"too few":            {args: []string{"bump", "patch"}, want: ErrUsage},
		"too many":           {args: []string{"bump", "legacy.sh", "patch", "a", "b"}, want: ErrUsage},
		"empty description":  {args: []string{"bump", "patch", " "}, want: ErrUsage},
		"init without file":  {args: []string{"bump", "init", "desc"}, want: ErrUsage},
		"invalid kind":       {args: []string{"bump", "legacy.sh", "huge", "desc"}, want: version.ErrInvalidKind},
		"unversioned script": {args: []string{"bump", "legacy.sh", "patch", "desc"}, want: version.ErrUnversioned},
		"nothing to detect":  {args: []string{"bump", "patch", "desc"}, want: version.ErrNoCandidates},
		"multiline init":     {args: []string{"bump", "legacy.sh", "init", "a\nb"}, want: version.ErrInvalidDescription},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, testDeps(t, work, &fakeRunner{}), "", tc.args...)
			require.ErrorIs(t, err, tc.want)
			assert.NotEmpty(t, hint(err))
		})
	}

	assert.Equal(t, original, readFile(t, legacy))
	assert.NoFileExists(t, legacy+version.BackupSuffix)
}

func TestBumpInit(t *testing.T) {
	work := t.TempDir()
	legacy := filepath.Join(work, "legacy.sh")
	require.NoError(t, os.WriteFile(legacy, []byte("#!/bin/bash\n# Description: Old helper\necho hi\n"), 0o755))
	d := testDeps(t, work, &fakeRunner{})

	out, err := execute(t, d, "", "bump", "legacy.sh", "init", "Imported")
	require.NoError(t, err)
	assert.Contains(t, out, "versioned at 1.0.0")
	assert.Contains(t, readFile(t, legacy), `SCRIPT_VERSION="1.0.0"`)

	_, err = execute(t, d, "", "bump", "legacy.sh", "init", "Again")
	require.ErrorIs(t, err, version.ErrAlreadyVersioned)
}

func TestCatalog(t *testing.T) {
	out, err := execute(t, testDeps(t, t.TempDir(), &fakeRunner{}), "", "catalog", "-e")
	require.NoError(t, err)
	assert.Contains(t, out, "SERIAL_NUMBER")
	assert.Contains(t, out, "TIMESTAMP")
	assert.Contains(t, out, "sw_vers -productVersion")
}

func TestInstallUninstall(t *testing.T) {
	bin := t.TempDir()
	d := testDeps(t, t.TempDir(), &fakeRunner{})

	out, err := execute(t, d, "", "install", "--dir", bin)
	require.NoError(t, err)
	installed := filepath.Join(bin, binaryName)
	assert.Equal(t, installed+"\n", out)
	assert.FileExists(t, installed)
	assert.Contains(t, readFile(t, filepath.Join(d.stateDir, "state.json")), installed)

	_, err = execute(t, d, "", "uninstall", "--dir", bin)
	require.NoError(t, err)
	assert.NoFileExists(t, installed)

	_, err = execute(t, d, "", "uninstall", "--dir", bin)
	require.ErrorIs(t, err, installer.ErrNotInstalled)
}

func TestScriptName(t *testing.T) {
	t.Parallel()

	name, err := scriptName("install_printer.sh")
	require.NoError(t, err)
	assert.Equal(t, "install_printer", name)

	for _, bad := range []string{"", ".sh", "a/b", `a\b`, "..", "-x"} {
		_, err := scriptName(bad)
		assert.ErrorIs(t, err, ErrUsage, bad)
	}
}
