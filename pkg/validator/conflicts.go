package validator

import (
	"context"

	"github.com/sambabib/env-checker/pkg/logger"
)

// CheckConflicts runs the package manager's consistency check. The step
// passes only when pip reports a conflict-free environment; an invocation
// failure (pip missing, killed) counts as a failed check.
func (v *Validator) CheckConflicts(ctx context.Context) Result {
	logger.Infof("Checking for dependency conflicts...")
	logger.Debugf("Conflicts: invoking the package manager consistency check")

	result := Result{Step: StepConflicts}

	ok, output, err := v.runner.Check(ctx)
	if err != nil {
		logger.Errorf("checking dependencies: %v", err)
		result.Message = err.Error()
		return result
	}

	if !ok {
		logger.Infof("Dependency conflicts detected:")
		logger.Infof("%s", output)
		result.Message = "dependency conflicts detected"
		return result
	}

	logger.Infof("No dependency conflicts found")
	result.Passed = true
	result.Message = "no dependency conflicts found"
	return result
}
