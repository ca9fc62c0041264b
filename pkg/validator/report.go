package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sambabib/env-checker/pkg/config"
	"github.com/sambabib/env-checker/pkg/logger"
)

// GenerateReport queries the full installed package set and writes it as an
// indented JSON array to the configured report file, overwriting any prior
// report. Faults are logged and recorded in the result; this step never
// affects the process exit code.
func (v *Validator) GenerateReport(ctx context.Context) Result {
	logger.Infof("")
	logger.Infof("Generating dependency report...")
	logger.Debugf("Report: querying the installed package list")

	result := Result{Step: StepReport}

	packages, err := v.runner.ListInstalled(ctx)
	if err != nil {
		logger.Errorf("generating report: %v", err)
		result.Message = err.Error()
		return result
	}

	logger.Infof("Total packages installed: %d", len(packages))

	data, err := json.MarshalIndent(packages, "", "  ")
	if err != nil {
		logger.Errorf("generating report: %v", err)
		result.Message = err.Error()
		return result
	}

	path := v.cfg.Report.File
	if path == "" {
		path = config.DefaultReportFile
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Errorf("generating report: %v", err)
		result.Message = err.Error()
		return result
	}

	logger.Infof("Dependency report saved to %s", path)
	result.Passed = true
	result.Message = fmt.Sprintf("%d packages recorded in %s", len(packages), path)
	return result
}
