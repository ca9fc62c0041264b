package validator

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambabib/env-checker/pkg/pip"
)

func TestValidator_GenerateReport(t *testing.T) {
	installed := []pip.Package{
		{Name: "numpy", Version: "1.22.0"},
		{Name: "pillow", Version: "9.0.0"},
		{Name: "setuptools", Version: "65.5.0"},
		{Name: "torch", Version: "1.12.0"},
	}

	cfg := testConfig(t)
	v := New(&fakeRunner{
		listFunc: func(context.Context) ([]pip.Package, error) { return installed, nil },
	}, cfg)

	result := v.GenerateReport(context.Background())

	assert.True(t, result.Passed)
	assert.Equal(t, StepReport, result.Step)

	data, err := os.ReadFile(cfg.Report.File)
	require.NoError(t, err)

	var packages []pip.Package
	require.NoError(t, json.Unmarshal(data, &packages), "report must always be valid JSON")
	assert.Equal(t, installed, packages)
}

func TestValidator_GenerateReport_OverwritesPriorReport(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Report.File, []byte("stale junk"), 0644))

	v := New(&fakeRunner{
		listFunc: func(context.Context) ([]pip.Package, error) {
			return []pip.Package{{Name: "numpy", Version: "1.22.0"}}, nil
		},
	}, cfg)

	result := v.GenerateReport(context.Background())
	assert.True(t, result.Passed)

	data, err := os.ReadFile(cfg.Report.File)
	require.NoError(t, err)

	var packages []pip.Package
	require.NoError(t, json.Unmarshal(data, &packages))
	assert.Len(t, packages, 1)
}

func TestValidator_GenerateReport_ListFailure(t *testing.T) {
	cfg := testConfig(t)
	v := New(&fakeRunner{
		listFunc: func(context.Context) ([]pip.Package, error) {
			return nil, errors.New("running pip list: exit status 2")
		},
	}, cfg)

	result := v.GenerateReport(context.Background())

	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "pip list")
	assert.NoFileExists(t, cfg.Report.File)
}

func TestValidator_GenerateReport_WriteFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.File = filepath.Join(t.TempDir(), "missing-dir", "report.json")

	v := New(&fakeRunner{
		listFunc: func(context.Context) ([]pip.Package, error) {
			return []pip.Package{{Name: "numpy", Version: "1.22.0"}}, nil
		},
	}, cfg)

	result := v.GenerateReport(context.Background())

	assert.False(t, result.Passed)
	assert.NotEmpty(t, result.Message)
}
