package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/sambabib/env-checker/pkg/config"
	"github.com/sambabib/env-checker/pkg/logger"
	"github.com/sambabib/env-checker/pkg/pip"
)

// CheckVersions verifies every critical package against its configured
// bounds. A missing package or one below its minimum fails the step; a
// package above its maximum only warns. Per-package faults are logged and
// recorded without aborting the remaining checks.
func (v *Validator) CheckVersions(ctx context.Context) Result {
	logger.Infof("")
	logger.Infof("Checking critical package versions...")

	result := Result{Step: StepVersions, Passed: true}
	failed := 0

	for _, name := range v.cfg.CriticalNames() {
		if v.cfg.IsPackageIgnored(name) {
			logger.Debugf("Versions: %s is in the ignore list, skipping", name)
			continue
		}

		finding := v.checkPackage(ctx, name, v.cfg.Critical[name])
		if finding.Severity == SeverityError {
			result.Passed = false
			failed++
		}
		result.Findings = append(result.Findings, finding)
	}

	if result.Passed {
		result.Message = "all critical packages within bounds"
	} else {
		result.Message = fmt.Sprintf("%d of %d critical packages failed verification", failed, len(result.Findings))
	}
	return result
}

// checkPackage classifies one critical package. Every fault is folded into
// an error finding so the caller can keep iterating.
func (v *Validator) checkPackage(ctx context.Context, name string, bound config.Bound) Finding {
	finding := Finding{
		Name:       name,
		MinVersion: bound.Min,
		MaxVersion: bound.Max,
	}

	logger.Debugf("Versions: querying installed version of %s", name)
	details, err := v.runner.Show(ctx, name)
	if err != nil {
		if errors.Is(err, pip.ErrNotInstalled) {
			logger.Infof("%s: NOT INSTALLED", name)
			finding.Status = StatusMissing
			finding.Severity = SeverityError
			finding.Notes = "not installed"
			return finding
		}
		logger.Errorf("checking %s: %v", name, err)
		finding.Status = StatusError
		finding.Severity = SeverityError
		finding.Notes = err.Error()
		return finding
	}

	finding.InstalledVersion = details.Version

	installed, err := parseVersion(details.Version)
	if err != nil {
		logger.Errorf("checking %s: %v", name, err)
		finding.Status = StatusError
		finding.Severity = SeverityError
		finding.Notes = err.Error()
		return finding
	}

	if bound.Min != "" {
		min, err := parseVersion(bound.Min)
		if err != nil {
			logger.Errorf("checking %s: %v", name, err)
			finding.Status = StatusError
			finding.Severity = SeverityError
			finding.Notes = err.Error()
			return finding
		}
		if installed.LessThan(min) {
			logger.Infof("%s: %s is below minimum %s", name, details.Version, bound.Min)
			finding.Status = StatusBelowMinimum
			finding.Severity = SeverityError
			finding.Notes = fmt.Sprintf("below minimum %s", bound.Min)
			return finding
		}
	}

	if bound.Max != "" {
		max, err := parseVersion(bound.Max)
		if err != nil {
			logger.Errorf("checking %s: %v", name, err)
			finding.Status = StatusError
			finding.Severity = SeverityError
			finding.Notes = err.Error()
			return finding
		}
		if installed.GreaterThan(max) {
			logger.Warnf("%s: %s exceeds maximum %s", name, details.Version, bound.Max)
			finding.Status = StatusExceedsMaximum
			finding.Severity = SeverityWarning
			finding.Notes = fmt.Sprintf("exceeds maximum %s", bound.Max)
			return finding
		}
	}

	logger.Infof("%s: %s (valid)", name, details.Version)
	finding.Status = StatusValid
	finding.Severity = SeverityOK
	return finding
}

// versionPattern splits a version string into its numeric release segments
// and whatever trails them.
var versionPattern = regexp.MustCompile(`^v?([0-9]+(?:\.[0-9]+)*)(.*)$`)

// parseVersion parses an installed or configured version string, normalizing
// the PyPI forms the semver library rejects.
func parseVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(normalizeVersion(raw))
	if err != nil {
		return nil, fmt.Errorf("unparseable version %q: %w", raw, err)
	}
	return v, nil
}

// normalizeVersion rewrites a PyPI-style version into semver form: short
// releases are padded ("1.10" -> "1.10.0"), release segments past the third
// become build metadata so comparison happens at three-segment precision
// ("4.5.0.72" -> "4.5.0+72"), pre-release tags are attached with a hyphen
// ("1.2.3rc1" -> "1.2.3-rc1") and post releases become build metadata
// ("1.2.3.post1" -> "1.2.3+post1"). Strings with no leading digits pass
// through unchanged and fail in the parser.
func normalizeVersion(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	segments := strings.Split(m[1], ".")
	suffix := m[2]

	var build []string
	if len(segments) > 3 {
		build = append(build, segments[3:]...)
		segments = segments[:3]
	}
	for len(segments) < 3 {
		segments = append(segments, "0")
	}
	version := strings.Join(segments, ".")

	if suffix != "" {
		suffix = strings.ReplaceAll(suffix, "_", ".")
		// Local version identifiers ("+cu113") are already build metadata.
		if rest, ok := strings.CutPrefix(suffix, "+"); ok {
			build = append(build, rest)
			suffix = ""
		}
		suffix = strings.TrimLeft(suffix, ".-")
		switch {
		case suffix == "":
		case strings.HasPrefix(suffix, "post"), strings.HasPrefix(suffix, "rev"):
			// Post releases never order below the release itself.
			build = append(build, suffix)
		default:
			version += "-" + suffix
		}
	}

	if len(build) > 0 {
		version += "+" + strings.Join(build, ".")
	}
	return version
}
