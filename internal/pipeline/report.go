// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textmill/pkg/types"
)

// Report is the YAML record written after each batch run.
type Report struct {
	FinishedAt time.Time       `yaml:"finished_at"`
	Converted  int             `yaml:"converted"`
	Skipped    int             `yaml:"skipped"`
	Failed     int             `yaml:"failed"`
	Total      int             `yaml:"total"`
	Outcomes   []types.Outcome `yaml:"outcomes"`
}

// WriteReport writes the batch result to path as YAML. Callers treat a
// failed report write as a warning, not a batch failure.
func WriteReport(result BatchResult, path string) error {
	report := Report{
		FinishedAt: time.Now().UTC(),
		Converted:  result.Converted,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Total:      result.Total(),
		Outcomes:   result.Outcomes,
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
