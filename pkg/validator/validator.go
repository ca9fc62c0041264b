// Package validator implements the dependency validation run: a conflict
// check, a critical-version check and an installed-package report. Each step
// folds its faults into a Result, so one step failing never prevents the
// next from running.
package validator

import (
	"context"
	"errors"

	"github.com/sambabib/env-checker/pkg/config"
	"github.com/sambabib/env-checker/pkg/pip"
)

// ErrValidationFailed is returned to the CLI when a gating check failed;
// it maps to exit code 1.
var ErrValidationFailed = errors.New("dependency validation failed")

// Step names recorded in Result.Step.
const (
	StepConflicts = "conflicts"
	StepVersions  = "versions"
	StepReport    = "report"
)

// Statuses assigned to version findings.
const (
	StatusValid          = "valid"
	StatusMissing        = "missing"
	StatusBelowMinimum   = "below-minimum"
	StatusExceedsMaximum = "exceeds-maximum"
	StatusError          = "error"
)

// Severities attached to findings. Only "error" findings fail the version
// check; "warning" covers ceiling breaches.
const (
	SeverityOK      = "ok"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// PipRunner is the surface of the pip CLI the checks run against.
type PipRunner interface {
	// Check runs the package manager's consistency check.
	Check(ctx context.Context) (ok bool, output string, err error)
	// Show queries the details of a single installed package.
	Show(ctx context.Context, name string) (*pip.Details, error)
	// ListInstalled returns every installed package with its version.
	ListInstalled(ctx context.Context) ([]pip.Package, error)
}

// Finding records how one critical package fared against its bounds.
type Finding struct {
	Name             string `json:"name"`                        // package name
	InstalledVersion string `json:"installed_version,omitempty"` // version found in the environment
	MinVersion       string `json:"min_version,omitempty"`       // configured floor
	MaxVersion       string `json:"max_version,omitempty"`       // configured ceiling
	Status           string `json:"status"`                      // valid, missing, below-minimum, exceeds-maximum, error
	Severity         string `json:"severity"`                    // ok, warning, error
	Notes            string `json:"notes,omitempty"`             // human-readable detail
}

// Result carries the outcome of a single validation step: pass or fail plus
// whatever the step has to report.
type Result struct {
	Step     string    `json:"step"`
	Passed   bool      `json:"passed"`
	Message  string    `json:"message,omitempty"`
	Findings []Finding `json:"findings,omitempty"`
}

// Summary aggregates the three step results. Passed reflects the conflict
// and version checks only; the report step is informational.
type Summary struct {
	Passed    bool   `json:"passed"`
	Conflicts Result `json:"conflicts"`
	Versions  Result `json:"versions"`
	Report    Result `json:"report"`
}

// Validator runs the validation steps against one installed environment.
type Validator struct {
	runner PipRunner
	cfg    *config.Config
}

// New creates a Validator for the given pip surface and configuration.
func New(runner PipRunner, cfg *config.Config) *Validator {
	return &Validator{
		runner: runner,
		cfg:    cfg,
	}
}

// Run executes the conflict check, the version check and the report
// generation, in that order and unconditionally: the report is generated
// even when the gating checks failed.
func (v *Validator) Run(ctx context.Context) Summary {
	conflicts := v.CheckConflicts(ctx)
	versions := v.CheckVersions(ctx)
	report := v.GenerateReport(ctx)

	return Summary{
		Passed:    conflicts.Passed && versions.Passed,
		Conflicts: conflicts,
		Versions:  versions,
		Report:    report,
	}
}
