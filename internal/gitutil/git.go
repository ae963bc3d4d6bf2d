// Package gitutil wraps the git and gh command-line tools. Every call is a
// blocking external process; callers treat failures as warnings unless the
// operation is the point of the command.
package gitutil

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"

	"mdm-scriptgen/internal/logger"
)

// Runner executes an external command in dir and returns its combined output.
type Runner interface {
	Run(dir, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs real processes.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	return cmd.CombinedOutput()
}

// LookPath implements Runner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Client runs git and gh in one working directory.
type Client struct {
	Runner Runner
	Dir    string
}

// NewClient returns a Client backed by real processes.
func NewClient(dir string) *Client {
	return &Client{Runner: ExecRunner{}, Dir: dir}
}

func (c *Client) git(args ...string) (string, error) {
	out, err := c.Runner.Run(c.Dir, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// HasCommand reports whether name is on PATH.
func (c *Client) HasCommand(name string) bool {
	_, err := c.Runner.LookPath(name)
	return err == nil
}

// Init creates a repository in Dir.
func (c *Client) Init() error {
	_, err := c.git("init")
	return err
}

// Add stages paths, or everything under Dir when none are given.
func (c *Client) Add(paths ...string) error {
	args := []string{"add"}
	if len(paths) == 0 {
		args = append(args, "-A")
	} else {
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := c.git(args...)
	return err
}

// Commit records the staged changes.
func (c *Client) Commit(message string) error {
	_, err := c.git("commit", "-m", message)
	return err
}

// CheckoutNewBranch creates and switches to branch.
func (c *Client) CheckoutNewBranch(branch string) error {
	_, err := c.git("checkout", "-b", branch)
	return err
}

// Tag creates an annotated tag at HEAD.
func (c *Client) Tag(name, message string) error {
	_, err := c.git("tag", "-a", name, "-m", message)
	return err
}

// Tags lists every tag in the repository.
func (c *Client) Tags() ([]string, error) {
	out, err := c.git("tag", "--list")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// ConfigValue reads a git config key, returning "" when it is unset.
func (c *Client) ConfigValue(key string) string {
	out, err := c.git("config", "--get", key)
	if err != nil {
		return ""
	}
	return out
}

// CreateRemote runs `gh repo create` for the repository in Dir and pushes it.
func (c *Client) CreateRemote(repo string, private bool) error {
	visibility := "--public"
	if private {
		visibility = "--private"
	}
	out, err := c.Runner.Run(c.Dir, "gh", "repo", "create", repo, visibility, "--source", ".", "--push")
	if err != nil {
		return fmt.Errorf("gh repo create %s: %w: %s", repo, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LatestTag returns the highest release tag of the form <prefix>x.y.z or
// <prefix>vx.y.z, or "" when none qualifies. Pre-release and partial versions
// are ignored.
func LatestTag(tags []string, prefix string) string {
	var (
		best    *semver.Version
		bestTag string
	)
	for _, t := range tags {
		t = strings.TrimSpace(t)
		raw, ok := strings.CutPrefix(t, prefix)
		if !ok {
			continue
		}
		v, err := semver.StrictNewVersion(strings.TrimPrefix(raw, "v"))
		if err != nil || v.Prerelease() != "" {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestTag = v, t
		}
	}
	return bestTag
}
