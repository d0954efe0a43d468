// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textmill/pkg/types"
)

func TestWriteReport(t *testing.T) {
	result := BatchResult{
		Converted: 2,
		Skipped:   1,
		Failed:    1,
		Outcomes: []types.Outcome{
			{Document: types.Document{Name: "a.pdf"}, TextPath: "texts/a.txt", Method: types.MethodPdftotext},
			{Document: types.Document{Name: "b.pdf"}, TextPath: "texts/b.txt", Method: types.MethodOCR},
			{Document: types.Document{Name: "c.pdf"}, TextPath: "texts/c.txt", Method: types.MethodSkipped},
			{Document: types.Document{Name: "d.pdf"}, Method: types.MethodFailed, Error: "both strategies failed"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report Report
	require.NoError(t, yaml.Unmarshal(data, &report))

	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 4, report.Total)
	require.Len(t, report.Outcomes, 4)
	assert.Equal(t, "a.pdf", report.Outcomes[0].Document.Name)
	assert.Equal(t, types.MethodFailed, report.Outcomes[3].Method)
	assert.Equal(t, "both strategies failed", report.Outcomes[3].Error)
	assert.WithinDuration(t, time.Now(), report.FinishedAt, time.Minute)
}

func TestWriteReport_BadPath(t *testing.T) {
	err := WriteReport(BatchResult{}, filepath.Join(t.TempDir(), "missing", "report.yaml"))
	require.Error(t, err)
}
