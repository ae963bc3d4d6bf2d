package version_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdm-scriptgen/internal/env"
	"mdm-scriptgen/internal/render"
	"mdm-scriptgen/internal/version"
)

var (
	generatedOn = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	bumpedOn    = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
)

func testCtx(now time.Time) env.Context {
	return env.Context{
		Author:      "Jane Admin",
		Email:       "jane@example.com",
		Now:         env.FixedClock(now),
		SecretsFile: "~/.mdm_secrets",
		LogDir:      "/var/log",
	}
}

func generate(t *testing.T, mode render.Mode, name string) render.ArtifactSet {
	t.Helper()

	root := t.TempDir()
	set := render.ResolvePaths(mode, root, name)
	in := render.Input{Name: name, Description: "Does foo", Ctx: testCtx(generatedOn)}
	require.NoError(t, render.Write(in, set))
	return set
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestGenerateThenBumpPatch(t *testing.T) {
	t.Parallel()

	for _, mode := range []render.Mode{render.Attached, render.Standalone} {
		mode := mode
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			set := generate(t, mode, "foo")
			script := readFile(t, set.ScriptPath)
			assert.Contains(t, script, `SCRIPT_VERSION="1.0.0"`)
			assert.Contains(t, readFile(t, set.ReadmePath), "| - | None | - |")

			eng := version.Engine{Ctx: testCtx(bumpedOn)}
			res, err := eng.Bump(set.ScriptPath, version.Patch, "fix x")
			require.NoError(t, err)
			assert.Equal(t, version.Version{Major: 1, Patch: 1}, res.Current)
			require.NotNil(t, res.Previous)
			assert.Equal(t, version.Initial, *res.Previous)
			assert.Equal(t, set.ReadmePath, res.ReadmePath)
			assert.Equal(t, set.ChangelogPath, res.ChangelogPath)

			bumped := readFile(t, set.ScriptPath)
			assert.Contains(t, bumped, `SCRIPT_VERSION="1.0.1"`)
			assert.Contains(t, bumped, "# VERSION: 1.0.1\n")
			assert.Contains(t, bumped, "# CHANGELOG\n# 1.0.1 - 2026-10-17 - fix x\n# 1.0.0 - 2026-10-01 - Initial release\n")
			assert.Equal(t, 1, strings.Count(bumped, "SCRIPT_VERSION=\""))

			hdr, err := version.ParseHeader(bumped)
			require.NoError(t, err)
			assert.Equal(t, res.Current, hdr.Version)

			readme := readFile(t, set.ReadmePath)
			assert.Contains(t, readme, "**Version:** 1.0.1\n")
			assert.Contains(t, readme, "**Last Updated:** 2026-10-17\n")
			assert.Contains(t, readme, "- **1.0.0** (2026-10-01): Initial release\n- **1.0.1** (2026-10-17): fix x\n")

			changelog := readFile(t, set.ChangelogPath)
			newEntry := strings.Index(changelog, "## [1.0.1] - 2026-10-17\n\n### Fixed\n\n- fix x\n")
			oldEntry := strings.Index(changelog, "## [1.0.0] - 2026-10-01")
			require.GreaterOrEqual(t, newEntry, 0)
			assert.Less(t, newEntry, oldEntry)

			assert.Equal(t, script, readFile(t, res.BackupPath))

			_, err = version.Check(set.ScriptPath, "")
			require.NoError(t, err)
		})
	}
}

func TestBumpSequenceStaysConsistent(t *testing.T) {
	t.Parallel()

	set := generate(t, render.Attached, "seq")
	eng := version.Engine{Ctx: testCtx(bumpedOn)}

	steps := []struct {
		kind version.Kind
		want string
	}{
		{version.Minor, "1.1.0"},
		{version.Patch, "1.1.1"},
		{version.Major, "2.0.0"},
		{version.Patch, "2.0.1"},
	}
	prev := version.Initial
	for _, s := range steps {
		res, err := eng.Bump(set.ScriptPath, s.kind, "step "+s.want)
		require.NoError(t, err)
		assert.Equal(t, s.want, res.Current.String())
		assert.True(t, prev.Less(res.Current))
		prev = res.Current

		rep, err := version.Check(set.ScriptPath, "")
		require.NoError(t, err)
		require.NotNil(t, rep.Readme)
		assert.Equal(t, res.Current, *rep.Readme)
	}

	changelog := readFile(t, set.ChangelogPath)
	assert.Contains(t, changelog, "## [2.0.0] - 2026-10-17\n\n### Changed\n")
	assert.Contains(t, changelog, "## [1.1.0] - 2026-10-17\n\n### Added\n")
	assert.Less(t, strings.Index(changelog, "[2.0.1]"), strings.Index(changelog, "[1.0.0]"))
}

func TestBumpUnversionedFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "plain.sh")
	original := "#!/bin/bash\necho hi\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o755))

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	_, err := eng.Bump(path, version.Patch, "nope")
	require.ErrorIs(t, err, version.ErrUnversioned)

	assert.Equal(t, original, readFile(t, path))
	assert.NoFileExists(t, path+version.BackupSuffix)
}

func TestBumpInvalidKind(t *testing.T) {
	t.Parallel()

	set := generate(t, render.Attached, "kind")
	before := readFile(t, set.ScriptPath)

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	_, err := eng.Bump(set.ScriptPath, version.Kind("huge"), "nope")
	require.ErrorIs(t, err, version.ErrInvalidKind)
	assert.Equal(t, before, readFile(t, set.ScriptPath))
}

func TestBumpKindIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	set := generate(t, render.Attached, "upper")

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	res, err := eng.Bump(set.ScriptPath, version.Kind("PATCH"), "fix")
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", res.Current.String())
}

func TestMultilineDescriptionIsRejected(t *testing.T) {
	t.Parallel()

	descriptions := map[string]string{
		"newline":        "fix\nrm -rf /tmp/x",
		"carriage":       "fix\rrm -rf /tmp/x",
		"second version": "x\nSCRIPT_VERSION=\"9.9.9\"",
		"blank":          "  ",
	}

	for name, desc := range descriptions {
		desc := desc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			set := generate(t, render.Attached, "multi")
			before := readFile(t, set.ScriptPath)

			eng := version.Engine{Ctx: testCtx(bumpedOn)}
			_, err := eng.Bump(set.ScriptPath, version.Patch, desc)
			require.ErrorIs(t, err, version.ErrInvalidDescription)
			assert.Equal(t, before, readFile(t, set.ScriptPath))
			assert.NoFileExists(t, set.ScriptPath+version.BackupSuffix)

			legacy := filepath.Join(t.TempDir(), "legacy.sh")
			require.NoError(t, os.WriteFile(legacy, []byte("#!/bin/bash\necho hi\n"), 0o755))
			_, err = eng.Init(legacy, desc)
			require.ErrorIs(t, err, version.ErrInvalidDescription)
			assert.Equal(t, "#!/bin/bash\necho hi\n", readFile(t, legacy))

			// The untouched script still bumps cleanly.
			_, err = eng.Bump(set.ScriptPath, version.Patch, "single line")
			require.NoError(t, err)
		})
	}
}

func TestBumpWithoutChangelogMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bare.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/bash\nreadonly SCRIPT_VERSION=\"0.9.9\" # keep\necho hi\n"), 0o755))

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	res, err := eng.Bump(path, version.Minor, "feature")
	require.NoError(t, err)
	assert.Empty(t, res.ReadmePath)
	assert.Empty(t, res.ChangelogPath)

	assert.Equal(t,
		"#!/bin/bash\n# CHANGELOG\n# 0.10.0 - 2026-10-17 - feature\n\nreadonly SCRIPT_VERSION=\"0.10.0\" # keep\necho hi\n",
		readFile(t, path))
}

func TestInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.sh")
	original := "#!/bin/bash\n# Description: Cleans caches\n# author: Old Admin\n# usage: legacy.sh\necho hi\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o755))

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	res, err := eng.Init(path, "Adopt versioning")
	require.NoError(t, err)
	assert.Equal(t, version.Initial, res.Current)
	assert.Nil(t, res.Previous)

	got := readFile(t, path)
	assert.True(t, strings.HasPrefix(got, "#!/bin/bash\n#\n# SCRIPT: legacy.sh\n# VERSION: 1.0.0\n# AUTHOR: Old Admin\n"))
	assert.Contains(t, got, "# Description: Cleans caches\n# Usage: legacy.sh\n")
	assert.Contains(t, got, "# CHANGELOG\n# 1.0.0 - 2026-10-17 - Adopt versioning\n")
	assert.True(t, strings.HasSuffix(got, original[len("#!/bin/bash\n"):]))

	hdr, err := version.ParseHeader(got)
	require.NoError(t, err)
	assert.Equal(t, version.Initial, hdr.Version)
	assert.Equal(t, original, readFile(t, res.BackupPath))

	// A second init must fail and leave the file alone.
	_, err = eng.Init(path, "again")
	require.ErrorIs(t, err, version.ErrAlreadyVersioned)
	assert.Equal(t, got, readFile(t, path))

	// Bump now works on the initialized script.
	next, err := eng.Bump(path, version.Patch, "first fix")
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", next.Current.String())
}

func TestInitWithoutShebangUsesOperatorInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "noshebang.sh")
	require.NoError(t, os.WriteFile(path, []byte("echo hi\n"), 0o644))

	eng := version.Engine{Ctx: testCtx(bumpedOn)}
	_, err := eng.Init(path, "Start tracking")
	require.NoError(t, err)

	got := readFile(t, path)
	assert.True(t, strings.HasPrefix(got, "#\n# SCRIPT: noshebang.sh\n"))
	assert.Contains(t, got, "# AUTHOR: Jane Admin\n")
	assert.Contains(t, got, "# Description: Start tracking\n")
	assert.True(t, strings.HasSuffix(got, "SCRIPT_VERSION=\"1.0.0\"\n\necho hi\n"))
}

func TestFindCompanionsIgnoresRepositoryReadme(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := filepath.Join(dir, "tool.sh")
	require.NoError(t, os.WriteFile(script, []byte("SCRIPT_VERSION=\"1.0.0\"\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("**Version:** 9.9.9\n"), 0o644))

	c := version.FindCompanions(script)
	assert.Empty(t, c.Readme)
	assert.Empty(t, c.Changelog)
}
