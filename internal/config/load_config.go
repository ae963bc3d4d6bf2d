package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDir returns the directory holding config.yaml and the install state file.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mdm-scriptgen"
	}
	return filepath.Join(home, ".config", "mdm-scriptgen")
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		SecretsFile:   DefaultSecretsFile,
		LogDir:        DefaultLogDir,
		FirstPosition: DefaultFirstPosition,
		MaxParameters: DefaultMaxParameters,
	}
}

// LoadConfig reads the YAML config file at path and merges it over Defaults.
// A missing file is not an error; a file that exists but does not parse is.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()

	// Read the raw YAML; absence simply means "use defaults"
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	cfg.merge(fileCfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays every non-zero field of other onto c.
func (c *Config) merge(other Config) {
	if other.Author != "" {
		c.Author = other.Author
	}
	if other.Email != "" {
		c.Email = other.Email
	}
	if other.SecretsFile != "" {
		c.SecretsFile = other.SecretsFile
	}
	if other.LogDir != "" {
		c.LogDir = other.LogDir
	}
	if other.FirstPosition != 0 {
		c.FirstPosition = other.FirstPosition
	}
	if other.MaxParameters != 0 {
		c.MaxParameters = other.MaxParameters
	}
	if other.CIWorkflow {
		c.CIWorkflow = true
	}
	if other.GitHubOrg != "" {
		c.GitHubOrg = other.GitHubOrg
	}
}

// Validate rejects parameter ranges the collector cannot honor.
func (c Config) Validate() error {
	if c.FirstPosition < 1 {
		return fmt.Errorf("first_position must be >= 1, got %d", c.FirstPosition)
	}
	if c.MaxParameters < 0 {
		return fmt.Errorf("max_parameters must be >= 0, got %d", c.MaxParameters)
	}
	return nil
}

// ExpandHome turns a leading "~/" into the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
