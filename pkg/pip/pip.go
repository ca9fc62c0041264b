// Package pip wraps the pip command-line interface used to inspect an
// installed Python environment.
package pip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultExecutable is the pip binary invoked when none is configured.
const DefaultExecutable = "pip"

// ErrNotInstalled indicates the queried package is not present in the
// environment. pip signals this with a non-zero exit from `pip show`.
var ErrNotInstalled = errors.New("package not installed")

// Package is one installed package as reported by `pip list --format=json`.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CLI invokes pip as an external command.
type CLI struct {
	// Executable is the pip binary to run: "pip", "pip3" or an absolute path.
	Executable string
}

// NewCLI creates a CLI for the given executable, falling back to
// DefaultExecutable when empty.
func NewCLI(executable string) *CLI {
	if executable == "" {
		executable = DefaultExecutable
	}
	return &CLI{Executable: executable}
}

// Check runs `pip check`. ok is true when pip reports a consistent
// environment. When pip runs but finds broken requirements, ok is false and
// output carries the conflict listing; err is reserved for invocation
// failures (binary missing, killed, ...).
func (c *CLI) Check(ctx context.Context) (ok bool, output string, err error) {
	cmd := exec.CommandContext(ctx, c.Executable, "check")
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// pip ran and reported inconsistencies; the listing is in out.
			return false, strings.TrimSpace(string(out)), nil
		}
		return false, "", fmt.Errorf("running %s check: %w", c.Executable, err)
	}
	return true, strings.TrimSpace(string(out)), nil
}

// Show runs `pip show <name>` and parses the resulting stanza. It returns an
// error wrapping ErrNotInstalled when pip exits non-zero.
func (c *CLI) Show(ctx context.Context, name string) (*Details, error) {
	cmd := exec.CommandContext(ctx, c.Executable, "show", name)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotInstalled)
		}
		return nil, fmt.Errorf("running %s show %s: %w", c.Executable, name, err)
	}

	details, err := ParseShowOutput(out)
	if err != nil {
		return nil, fmt.Errorf("parsing %s show %s output: %w", c.Executable, name, err)
	}
	return details, nil
}

// ListInstalled runs `pip list --format=json` and decodes the full installed
// package set.
func (c *CLI) ListInstalled(ctx context.Context) ([]Package, error) {
	cmd := exec.CommandContext(ctx, c.Executable, "list", "--format=json")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
				return nil, fmt.Errorf("running %s list: %w: %s", c.Executable, err, stderr)
			}
		}
		return nil, fmt.Errorf("running %s list: %w", c.Executable, err)
	}

	var packages []Package
	if err := json.Unmarshal(out, &packages); err != nil {
		return nil, fmt.Errorf("parsing %s list output: %w", c.Executable, err)
	}
	return packages, nil
}
