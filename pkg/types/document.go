// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the textmill pipeline.
// Implements: prd001-listing (Document), prd002-download (LocalFile),
//
//	prd003-conversion (ConversionMethod, Outcome).
//
// See docs/ARCHITECTURE § Pipeline Interface, § Data Structures.
package types

import (
	"path/filepath"
	"strings"
)

// ConversionMethod records which strategy produced (or failed to produce)
// the text output for a document. Per prd003-conversion R4.2.
type ConversionMethod string

const (
	// MethodPdftotext means the layout-preserving pdftotext pass succeeded.
	MethodPdftotext ConversionMethod = "pdftotext"

	// MethodOCR means the rasterize-and-recognize fallback succeeded.
	MethodOCR ConversionMethod = "ocr"

	// MethodSkipped means the output already existed and no extraction ran.
	MethodSkipped ConversionMethod = "skipped"

	// MethodFailed means every strategy in the chain failed.
	MethodFailed ConversionMethod = "failed"
)

// Document identifies one PDF in the upstream repository tree.
// Created by the lister; immutable for the life of the batch.
type Document struct {
	// Name is the bare filename (e.g. "players-handbook.pdf").
	Name string `json:"name" yaml:"name"`

	// Path is the repository-relative path from the tree listing.
	Path string `json:"path" yaml:"path"`

	// RawURL is the raw-content URL the downloader fetches.
	RawURL string `json:"raw_url" yaml:"raw_url"`
}

// Stem returns the filename without its extension. Every downstream
// artifact path is derived from the stem alone.
func (d Document) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// LocalFile is a document materialized on disk by the downloader.
// The file persists after the run; nothing cleans it up.
type LocalFile struct {
	Document Document `json:"document" yaml:"document"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path" yaml:"pdf_path"`

	// SizeBytes is the size of the file on disk.
	SizeBytes int64 `json:"size_bytes" yaml:"size_bytes"`
}

// Outcome is the per-document conversion record, produced exactly once
// per document by the orchestrator.
type Outcome struct {
	Document Document `json:"document" yaml:"document"`

	// TextPath is the output artifact path. Empty when Method is failed.
	TextPath string `json:"text_path,omitempty" yaml:"text_path,omitempty"`

	// Method records how the output was produced.
	Method ConversionMethod `json:"method" yaml:"method"`

	// Error holds the failure message for failed documents. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Succeeded reports whether the document ended with usable output.
func (o Outcome) Succeeded() bool {
	return o.Method != MethodFailed
}
