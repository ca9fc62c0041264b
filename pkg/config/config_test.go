package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "pip", cfg.Pip)
	assert.Equal(t, DefaultReportFile, cfg.Report.File)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Empty(t, cfg.Ignore)

	assert.Equal(t, Bound{Min: "1.10.0"}, cfg.Critical["torch"])
	assert.Equal(t, Bound{Min: "1.21.0", Max: "1.24.0"}, cfg.Critical["numpy"])
	assert.Equal(t, Bound{Min: "4.5.0"}, cfg.Critical["opencv-python"])
	assert.Equal(t, Bound{Min: "8.0.0"}, cfg.Critical["pillow"])
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "a missing config file yields the defaults")
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".envcheck.yaml", `
pip: pip3
critical:
  torch:
    min: 2.0.0
  scipy:
    min: 1.8.0
    max: 1.11.0
ignore:
  - pillow
report:
  file: out/report.json
output:
  format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pip3", cfg.Pip)
	assert.Equal(t, "out/report.json", cfg.Report.File)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []string{"pillow"}, cfg.Ignore)

	// A configured entry replaces the built-in bounds for that package.
	assert.Equal(t, Bound{Min: "2.0.0"}, cfg.Critical["torch"])
	// New entries are added, untouched built-ins stay in force.
	assert.Equal(t, Bound{Min: "1.8.0", Max: "1.11.0"}, cfg.Critical["scipy"])
	assert.Equal(t, Bound{Min: "1.21.0", Max: "1.24.0"}, cfg.Critical["numpy"])
	assert.Equal(t, Bound{Min: "4.5.0"}, cfg.Critical["opencv-python"])
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), ".envcheck.yaml", "critical: [broken\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")
}

func TestLoadPyProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", `
[project]
name = "vision-pipeline"

[tool.envcheck]
pip = "pip3.11"
ignore = ["torch"]

[tool.envcheck.critical.numpy]
min = "1.23.0"
max = "1.26.0"

[tool.envcheck.critical.scipy]
min = "1.9.0"
`)

	cfg := DefaultConfig()
	require.NoError(t, LoadPyProject(cfg, dir))

	assert.Equal(t, "pip3.11", cfg.Pip)
	assert.Equal(t, Bound{Min: "1.23.0", Max: "1.26.0"}, cfg.Critical["numpy"])
	assert.Equal(t, Bound{Min: "1.9.0"}, cfg.Critical["scipy"])
	assert.Equal(t, Bound{Min: "1.10.0"}, cfg.Critical["torch"], "unmentioned built-ins stay in force")
	assert.Contains(t, cfg.Ignore, "torch")
}

func TestLoadPyProject_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, LoadPyProject(cfg, t.TempDir()))
	assert.Equal(t, DefaultConfig(), cfg, "a missing pyproject.toml changes nothing")
}

func TestLoadPyProject_NoEnvcheckSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", `
[project]
name = "vision-pipeline"

[tool.black]
line-length = 100
`)

	cfg := DefaultConfig()
	require.NoError(t, LoadPyProject(cfg, dir))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPyProject_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", "[tool.envcheck\npip = ")

	cfg := DefaultConfig()
	err := LoadPyProject(cfg, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing")
}

func TestLoadPyProject_EmptyCriticalTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pyproject.toml", `
[tool.envcheck.critical.requests]
min = "2.28.0"
`)

	cfg := &Config{}
	require.NoError(t, LoadPyProject(cfg, dir))
	assert.Equal(t, Bound{Min: "2.28.0"}, cfg.Critical["requests"])
}

func TestIsPackageIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ignore = []string{"torch", "scipy"}

	assert.True(t, cfg.IsPackageIgnored("torch"))
	assert.True(t, cfg.IsPackageIgnored("scipy"))
	assert.False(t, cfg.IsPackageIgnored("numpy"))
}

func TestCriticalNames_Sorted(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"numpy", "opencv-python", "pillow", "torch"}, cfg.CriticalNames())
}
