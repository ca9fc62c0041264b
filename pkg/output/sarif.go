package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sambabib/env-checker/pkg/validator"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUtc        string `json:"startTimeUtc"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

// GenerateSarifReport converts the run summary to SARIF format. Each failed
// or warned check becomes one result; valid findings produce none.
func GenerateSarifReport(summary validator.Summary, projectPath, toolVersion string) ([]byte, error) {
	// Define rules
	rules := []SarifRule{
		{
			ID:               "dependency-conflict",
			ShortDescription: SarifMessage{Text: "Dependency conflicts detected"},
			FullDescription:  SarifMessage{Text: "The installed environment contains packages with mutually incompatible requirements."},
			Help:             SarifMessage{Text: "Run the package manager's consistency check locally and reinstall the conflicting packages."},
		},
		{
			ID:               "package-missing",
			ShortDescription: SarifMessage{Text: "Critical package not installed"},
			FullDescription:  SarifMessage{Text: "A package subject to explicit version policy is not installed in the environment."},
			Help:             SarifMessage{Text: "Install the package at a version above its configured minimum."},
		},
		{
			ID:               "below-minimum",
			ShortDescription: SarifMessage{Text: "Installed version below minimum"},
			FullDescription:  SarifMessage{Text: "The installed version of a critical package is below the configured minimum bound."},
			Help:             SarifMessage{Text: "Upgrade the package to at least its minimum version."},
		},
		{
			ID:               "exceeds-maximum",
			ShortDescription: SarifMessage{Text: "Installed version exceeds maximum"},
			FullDescription:  SarifMessage{Text: "The installed version of a critical package is above the configured maximum bound. This warns but does not fail validation."},
			Help:             SarifMessage{Text: "Consider downgrading to a version the maximum bound has been verified against."},
		},
		{
			ID:               "check-error",
			ShortDescription: SarifMessage{Text: "Package check failed"},
			FullDescription:  SarifMessage{Text: "Querying or parsing the installed version of a critical package failed."},
			Help:             SarifMessage{Text: "Inspect the CI log for the underlying command or parse error."},
		},
	}

	location := []SarifLocation{
		{
			PhysicalLocation: SarifPhysicalLocation{
				ArtifactLocation: SarifArtifactLocation{
					URI: projectPath,
				},
			},
		},
	}

	var results []SarifResult

	if !summary.Conflicts.Passed {
		results = append(results, SarifResult{
			RuleID:    "dependency-conflict",
			Level:     "error",
			Message:   SarifMessage{Text: summary.Conflicts.Message},
			Locations: location,
		})
	}

	for _, f := range summary.Versions.Findings {
		var ruleID, messageText string
		level := "error"

		switch f.Status {
		case validator.StatusMissing:
			ruleID = "package-missing"
			messageText = fmt.Sprintf("%s is not installed (minimum %s)", f.Name, f.MinVersion)
		case validator.StatusBelowMinimum:
			ruleID = "below-minimum"
			messageText = fmt.Sprintf("%s: installed version %s is below minimum %s", f.Name, f.InstalledVersion, f.MinVersion)
		case validator.StatusExceedsMaximum:
			ruleID = "exceeds-maximum"
			level = "warning"
			messageText = fmt.Sprintf("%s: installed version %s exceeds maximum %s", f.Name, f.InstalledVersion, f.MaxVersion)
		case validator.StatusError:
			ruleID = "check-error"
			messageText = fmt.Sprintf("%s: %s", f.Name, f.Notes)
		default:
			continue // valid findings produce no result
		}

		results = append(results, SarifResult{
			RuleID:    ruleID,
			Level:     level,
			Message:   SarifMessage{Text: messageText},
			Locations: location,
		})
	}

	if results == nil {
		results = []SarifResult{}
	}

	// Create SARIF report
	now := time.Now().UTC()
	sarifReport := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "envcheck",
						Version:        toolVersion,
						InformationURI: "https://github.com/sambabib/env-checker",
						Rules:          rules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: summary.Passed,
						StartTimeUtc:        now.Add(-time.Second).Format(time.RFC3339),
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	// Marshal to JSON
	return json.MarshalIndent(sarifReport, "", "  ")
}
