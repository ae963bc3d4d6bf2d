package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
)

// SecretsStore answers whether a local override for a secret is already defined.
type SecretsStore interface {
	Has(name string) bool
}

// assignmentPattern matches `NAME=` and `export NAME=` at the start of a line.
var assignmentPattern = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_]*)=`)

// FileSecretsStore is the set of variable names assigned in a shell secrets file.
// Values are never retained.
type FileSecretsStore struct {
	names map[string]bool
}

// LoadSecretsStore scans the secrets file at path for assigned names.
// A missing file yields an empty store.
func LoadSecretsStore(path string) (*FileSecretsStore, error) {
	st := &FileSecretsStore{names: make(map[string]bool)}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return nil, fmt.Errorf("open secrets file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := assignmentPattern.FindStringSubmatch(scanner.Text()); m != nil {
			st.names[m[1]] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan secrets file %s: %w", path, err)
	}
	return st, nil
}

// Has implements SecretsStore.
func (s *FileSecretsStore) Has(name string) bool {
	return s != nil && s.names[name]
}
