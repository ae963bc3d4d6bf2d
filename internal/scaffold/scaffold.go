// Package scaffold writes the repository files that surround a standalone
// script: ignore file, pre-commit secret scanning and the CI workflow.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"mdm-scriptgen/internal/logger"
)

// Paths relative to the standalone directory.
const (
	GitignoreFile = ".gitignore"
	PreCommitFile = ".pre-commit-config.yaml"
	WorkflowFile  = ".github/workflows/shellcheck.yml"
)

// gitleaksRev is the gitleaks release pinned in generated pre-commit configs.
const gitleaksRev = "v8.21.2"

// Gitignore keeps backups, logs and local secrets out of the repository.
func Gitignore() string {
	return `# Backups written by mdm-scriptgen bump
*.bak

# Local secrets and logs
.mdm_secrets
*.secrets
*.log

# macOS
.DS_Store
`
}

// PreCommitConfig mirrors the .pre-commit-config.yaml schema.
type PreCommitConfig struct {
	Repos []PreCommitRepo `yaml:"repos"`
}

type PreCommitRepo struct {
	Repo  string          `yaml:"repo"`
	Rev   string          `yaml:"rev"`
	Hooks []PreCommitHook `yaml:"hooks"`
}

type PreCommitHook struct {
	ID string `yaml:"id"`
}

// PreCommit returns the secret-scanning hook configuration.
func PreCommit() PreCommitConfig {
	return PreCommitConfig{Repos: []PreCommitRepo{{
		Repo:  "https://github.com/gitleaks/gitleaks",
		Rev:   gitleaksRev,
		Hooks: []PreCommitHook{{ID: "gitleaks"}},
	}}}
}

// Workflow is the subset of the GitHub Actions schema the generated workflow uses.
type Workflow struct {
	Name string         `yaml:"name"`
	On   WorkflowOn     `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

type WorkflowOn struct {
	Push        BranchFilter `yaml:"push"`
	PullRequest BranchFilter `yaml:"pull_request"`
}

type BranchFilter struct {
	Branches []string `yaml:"branches"`
}

type Job struct {
	Name   string `yaml:"name"`
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

type Step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
}

// ShellcheckWorkflow lints and secret-scans scriptFile on every push and pull request.
func ShellcheckWorkflow(scriptFile string) Workflow {
	job := strcase.ToKebab("Lint " + strings.TrimSuffix(scriptFile, filepath.Ext(scriptFile)))
	return Workflow{
		Name: "Lint",
		On: WorkflowOn{
			Push:        BranchFilter{Branches: []string{"main"}},
			PullRequest: BranchFilter{Branches: []string{"main"}},
		},
		Jobs: map[string]Job{
			job: {
				Name:   "Lint " + scriptFile,
				RunsOn: "macos-latest",
				Steps: []Step{
					{Uses: "actions/checkout@v4", With: map[string]string{"fetch-depth": "0"}},
					{Name: "Install shellcheck", Run: "brew install shellcheck"},
					{Name: "Run shellcheck", Run: "shellcheck " + scriptFile},
					{Name: "Scan for secrets", Uses: "gitleaks/gitleaks-action@v2"},
				},
			},
		},
	}
}

// Marshal renders v as two-space indented YAML.
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	return buf.String(), nil
}

// Options selects the optional files.
type Options struct {
	Workflow bool
}

// Write creates the repository files under dir for scriptFile. Existing files
// are left alone and reported. It returns the paths it created.
func Write(dir, scriptFile string, opts Options) ([]string, error) {
	preCommit, err := Marshal(PreCommit())
	if err != nil {
		return nil, err
	}

	files := []struct{ rel, content string }{
		{GitignoreFile, Gitignore()},
		{PreCommitFile, preCommit},
	}
	if opts.Workflow {
		wf, err := Marshal(ShellcheckWorkflow(scriptFile))
		if err != nil {
			return nil, err
		}
		files = append(files, struct{ rel, content string }{WorkflowFile, wf})
	}

	var created []string
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.rel))
		ok, err := writeNew(path, f.content)
		if err != nil {
			return created, err
		}
		if !ok {
			logger.Warn("[WARN] %s already exists, leaving it unchanged\n", path)
			continue
		}
		logger.Debug("[DEBUG] Wrote %s\n", path)
		created = append(created, path)
	}
	return created, nil
}

func writeNew(path, content string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, f.Close()
}
