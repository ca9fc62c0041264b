package output

import (
	"encoding/json"

	"github.com/sambabib/env-checker/pkg/validator"
)

// GenerateJSONSummary converts the run summary to indented JSON
func GenerateJSONSummary(summary validator.Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}
