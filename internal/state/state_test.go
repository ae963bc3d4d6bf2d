package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdm-scriptgen/internal/state"
)

func TestLoadSaveState(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")

	st, err := state.LoadState(path)
	require.NoError(t, err)
	assert.Empty(t, st.Binaries)

	st.Binaries["mdm-scriptgen"] = state.BinaryState{Version: "1.0.0", InstallPath: "/usr/local/bin/mdm-scriptgen", InstalledAt: "2026-10-17"}
	require.NoError(t, state.SaveState(path, st))

	loaded, err := state.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, st.Binaries, loaded.Binaries)
}

func TestLoadStateErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	nullPath := filepath.Join(dir, "null.json")
	require.NoError(t, os.WriteFile(nullPath, []byte(`{"binaries": null}`), 0o644))
	st, err := state.LoadState(nullPath)
	require.NoError(t, err)
	assert.NotNil(t, st.Binaries)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte("{"), 0o644))
	_, err = state.LoadState(badPath)
	require.Error(t, err)
}
