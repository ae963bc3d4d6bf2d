package version_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdm-scriptgen/internal/version"
)

func writeScript(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeScript(t, filepath.Join(root, "a_plain.sh"), "echo unversioned\n")
	writeScript(t, filepath.Join(root, "b_tool.sh"), "SCRIPT_VERSION=\"1.0.0\"\n")
	writeScript(t, filepath.Join(root, "c_other", "c_other.sh"), "SCRIPT_VERSION=\"2.0.0\"\n")
	writeScript(t, filepath.Join(root, "mdm-scriptgen.sh"), "SCRIPT_VERSION=\"0.1.0\"\n")
	writeScript(t, filepath.Join(root, ".git", "hooks", "hook.sh"), "SCRIPT_VERSION=\"1.0.0\"\n")
	writeScript(t, filepath.Join(root, "notes.txt"), "SCRIPT_VERSION=\"1.0.0\"\n")

	first, rest, err := version.Detect(root, "mdm-scriptgen.sh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b_tool.sh"), first)
	assert.Equal(t, []string{filepath.Join(root, "c_other", "c_other.sh")}, rest)
}

func TestDetectNoCandidates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeScript(t, filepath.Join(root, "plain.sh"), "echo hi\n")

	_, _, err := version.Detect(root)
	require.ErrorIs(t, err, version.ErrNoCandidates)
}
