package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BinaryState records where a binary was installed and which build it was.
type BinaryState struct {
	Version     string `json:"version"`      // Version string of the installed binary
	InstallPath string `json:"install_path"` // Absolute path of the installed executable
	InstalledAt string `json:"installed_at"` // Install date, YYYY-MM-DD
}

// State is the persisted install record, keyed by binary name.
type State struct {
	Binaries map[string]BinaryState `json:"binaries"`
}

// LoadState loads the saved state from a JSON file at the given path.
// A missing file yields an empty state; a file that does not parse is an error.
func LoadState(path string) (*State, error) {
	// Read entire state JSON file into memory
	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{Binaries: make(map[string]BinaryState)}, nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}

	// Parse JSON data into a State struct
	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}

	// Ensure the map is initialized if JSON contained null for it
	if st.Binaries == nil {
		st.Binaries = make(map[string]BinaryState)
	}
	return &st, nil
}

// SaveState writes the given State struct to a JSON file at the given path.
// It pretty-prints the JSON with indentation for readability.
func SaveState(path string, st *State) error {
	// Marshal the State struct into indented JSON bytes
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Write the JSON bytes to the file with mode 0644 (read/write owner, read others)
	if err := os.WriteFile(path, file, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", path, err)
	}
	return nil
}
