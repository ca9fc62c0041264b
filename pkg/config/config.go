package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultReportFile is where the dependency report is written unless
// configured otherwise.
const DefaultReportFile = "dependency_report.json"

// Bound is the version policy for one critical package. Min is the lowest
// acceptable version; Max, when set, is a soft ceiling that only warns.
type Bound struct {
	Min string `yaml:"min" toml:"min"`
	Max string `yaml:"max,omitempty" toml:"max"`
}

// Config represents the configuration for the environment checker
type Config struct {
	// Pip is the pip executable to invoke (e.g. "pip", "pip3")
	Pip string `yaml:"pip"`

	// Critical maps package names to their version bounds
	Critical map[string]Bound `yaml:"critical"`

	// Ignore lists critical packages to skip during verification
	Ignore []string `yaml:"ignore"`

	// Report configuration
	Report struct {
		File string `yaml:"file"` // Report file path
	} `yaml:"report"`

	// Output configuration
	Output struct {
		Format string `yaml:"format"` // text, json, sarif
	} `yaml:"output"`
}

// DefaultConfig returns the default configuration, including the built-in
// critical-package table.
func DefaultConfig() *Config {
	config := &Config{
		Pip: "pip",
		Critical: map[string]Bound{
			"torch":         {Min: "1.10.0"},
			"numpy":         {Min: "1.21.0", Max: "1.24.0"},
			"opencv-python": {Min: "4.5.0"},
			"pillow":        {Min: "8.0.0"},
		},
	}

	config.Report.File = DefaultReportFile
	config.Output.Format = "text"

	return config
}

// LoadConfig loads the configuration from the specified file path.
// If no path is provided, it looks for .envcheck.yaml in the current
// directory. A missing file yields the defaults. Entries in the file merge
// over the defaults: a critical entry replaces the built-in bounds for that
// package, other built-ins stay in force (use ignore to drop them).
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path provided, look in current directory
	if configPath == "" {
		configPath = ".envcheck.yaml"
	}

	// Check if the file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return default config
		return config, nil
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse the YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// pyprojectFile models the [tool.envcheck] table of a pyproject.toml.
type pyprojectFile struct {
	Tool struct {
		Envcheck struct {
			Pip      string           `toml:"pip"`
			Critical map[string]Bound `toml:"critical"`
			Ignore   []string         `toml:"ignore"`
		} `toml:"envcheck"`
	} `toml:"tool"`
}

// LoadPyProject merges the [tool.envcheck] table of a pyproject.toml found in
// projectDir into the configuration, so Python repositories can keep their
// CI pin policy next to their packaging metadata. A missing file is fine.
func LoadPyProject(config *Config, projectDir string) error {
	path := filepath.Join(projectDir, "pyproject.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	var file pyprojectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}

	section := file.Tool.Envcheck
	if section.Pip != "" {
		config.Pip = section.Pip
	}
	if len(section.Critical) > 0 && config.Critical == nil {
		config.Critical = make(map[string]Bound)
	}
	for name, bound := range section.Critical {
		config.Critical[name] = bound
	}
	config.Ignore = append(config.Ignore, section.Ignore...)

	return nil
}

// IsPackageIgnored checks if a package should be ignored based on the configuration
func (c *Config) IsPackageIgnored(packageName string) bool {
	for _, ignoredPackage := range c.Ignore {
		if ignoredPackage == packageName {
			return true
		}
	}
	return false
}

// CriticalNames returns the critical package names in sorted order, so check
// output stays deterministic between runs.
func (c *Config) CriticalNames() []string {
	names := make([]string, 0, len(c.Critical))
	for name := range c.Critical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
