// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract implements the text-extraction strategies the
// orchestrator walks: pdftotext first, OCR as fallback.
// Implements: prd003-conversion (R1-R3);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"context"
	"os/exec"
)

// Extractor is one strategy in the fallback chain. Convert writes plain
// text for the PDF at pdfPath to textPath. The caller judges success by
// the shared criterion: nil error, output file present, size above zero.
type Extractor interface {
	// Name returns the strategy identifier ("pdftotext" or "ocr").
	Name() string

	// Available reports whether the strategy's external capabilities are
	// present. Availability is a configuration fact checked up front, not
	// a failure caught mid-conversion.
	Available() bool

	// Convert extracts text from pdfPath into textPath.
	Convert(ctx context.Context, pdfPath, textPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var defaultExec executor = &osExecutor{}
