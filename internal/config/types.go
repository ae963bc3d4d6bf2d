package config

// Config is the top-level structure returned after loading the YAML configuration.
// Every field is optional; Defaults fills the gaps so a missing file is a valid setup.
type Config struct {
	// Author and Email identify the operator in generated headers.
	// When empty they are resolved from `git config user.name` / `user.email`.
	Author string `yaml:"author"`
	Email  string `yaml:"email"`

	// SecretsFile is the per-user file sourced by generated scripts during local testing.
	// It is only ever checked for the existence of a variable name, never read for values.
	SecretsFile string `yaml:"secrets_file"`

	// LogDir is where generated scripts write their log file.
	LogDir string `yaml:"log_dir"`

	// FirstPosition is the first custom parameter index of the management platform
	// (Jamf Pro reserves $1-$3), MaxParameters the number of custom slots it allows.
	FirstPosition int `yaml:"first_position"`
	MaxParameters int `yaml:"max_parameters"`

	// CIWorkflow emits a shellcheck workflow in standalone mode without passing --ci.
	CIWorkflow bool `yaml:"ci_workflow"`

	// GitHubOrg is the owner passed to `gh repo create` when --remote is used.
	GitHubOrg string `yaml:"github_org"`
}

const (
	DefaultSecretsFile   = "~/.mdm_secrets"
	DefaultLogDir        = "/var/log"
	DefaultFirstPosition = 4
	DefaultMaxParameters = 8
)
