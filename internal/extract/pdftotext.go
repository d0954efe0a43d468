// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"time"
)

const binPdftotext = "pdftotext"

// DefaultPdftotextTimeout bounds a single pdftotext invocation.
const DefaultPdftotextTimeout = 300 * time.Second

// PdftotextExtractor runs the poppler pdftotext binary in layout-preserving
// mode. It is the fast primary strategy; its output carries no page markers.
type PdftotextExtractor struct {
	timeout time.Duration
	exec    executor
}

// NewPdftotextExtractor creates the primary extractor. A non-positive
// timeout selects the default (300s).
func NewPdftotextExtractor(timeout time.Duration) *PdftotextExtractor {
	if timeout <= 0 {
		timeout = DefaultPdftotextTimeout
	}
	return &PdftotextExtractor{timeout: timeout, exec: defaultExec}
}

// Name returns the strategy identifier.
func (e *PdftotextExtractor) Name() string { return "pdftotext" }

// Available reports whether the pdftotext binary is on PATH.
func (e *PdftotextExtractor) Available() bool {
	_, err := e.exec.LookPath(binPdftotext)
	return err == nil
}

// Convert runs pdftotext -layout with the configured time budget. On
// timeout the process is killed and an error returned; the orchestrator
// falls through to the next strategy.
func (e *PdftotextExtractor) Convert(ctx context.Context, pdfPath, textPath string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.exec.Run(ctx, binPdftotext, "-layout", pdfPath, textPath); err != nil {
		return fmt.Errorf("pdftotext on %s: %w", pdfPath, err)
	}
	return nil
}
