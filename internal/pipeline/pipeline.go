// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives the batch: list, download, and convert each
// document through the extraction fallback chain, then aggregate.
// Implements: prd003-conversion (R1-R5);
//
//	docs/ARCHITECTURE § Orchestration.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/textmill/internal/extract"
	"github.com/pdiddy/textmill/internal/fetch"
	"github.com/pdiddy/textmill/internal/listing"
	"github.com/pdiddy/textmill/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
	Outcomes  []types.Outcome
}

// Succeeded returns the number of documents with usable output, whether
// produced this run or found already in place.
func (r BatchResult) Succeeded() int {
	return r.Converted + r.Skipped
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Record accumulates one outcome. Run calls it exactly once per document,
// so Succeeded() + Failed == Total() holds for every batch.
func (r *BatchResult) Record(o types.Outcome) {
	switch o.Method {
	case types.MethodSkipped:
		r.Skipped++
	case types.MethodFailed:
		r.Failed++
	default:
		r.Converted++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// TextPath returns the output artifact path for a document: a
// deterministic function of the document stem alone.
func TextPath(cfg types.ConvertConfig, doc types.Document) string {
	return filepath.Join(cfg.TextDir, doc.Stem()+".txt")
}

// ConvertDocument drives the fallback chain for one downloaded document.
// If the output path already exists, no extractor is invoked and the
// document counts as successful (R2.1, the idempotence guarantee).
// Otherwise the extractors are walked in order until one meets the shared
// success criterion: Convert returned nil, the output exists, and its
// size is above zero. A failed attempt never leaves a file behind that a
// later skip-check would trust.
func ConvertDocument(ctx context.Context, extractors []extract.Extractor, local types.LocalFile, cfg types.ConvertConfig, w io.Writer) types.Outcome {
	doc := local.Document
	textPath := TextPath(cfg, doc)

	if _, err := os.Stat(textPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already converted)\n", doc.Stem())
		return types.Outcome{Document: doc, TextPath: textPath, Method: types.MethodSkipped}
	}

	if err := os.MkdirAll(cfg.TextDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Stem(), err)
		return types.Outcome{Document: doc, Method: types.MethodFailed, Error: err.Error()}
	}

	var lastErr error
	for _, ex := range extractors {
		if !ex.Available() {
			fmt.Fprintf(w, "  %s unavailable\n", ex.Name())
			lastErr = fmt.Errorf("%s unavailable", ex.Name())
			continue
		}

		err := ex.Convert(ctx, local.PDFPath, textPath)
		if err == nil {
			err = verifyOutput(textPath)
		}
		if err == nil {
			fmt.Fprintf(w, "converted: %s (%s)\n", doc.Stem(), ex.Name())
			return types.Outcome{Document: doc, TextPath: textPath, Method: types.ConversionMethod(ex.Name())}
		}

		os.Remove(textPath)
		fmt.Fprintf(w, "  %s failed: %v\n", ex.Name(), err)
		lastErr = err
	}

	fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Stem(), lastErr)
	return types.Outcome{Document: doc, Method: types.MethodFailed, Error: lastErr.Error()}
}

// verifyOutput applies the non-empty-output half of the success criterion.
func verifyOutput(textPath string) error {
	info, err := os.Stat(textPath)
	if err != nil {
		return fmt.Errorf("no output produced: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty", textPath)
	}
	return nil
}

// ListFunc enumerates the documents the batch processes. Production
// wraps listing.ListDocuments; tests substitute canned listings.
type ListFunc func(ctx context.Context) ([]types.Document, error)

// NewLister binds the GitHub tree lister to a client and source.
func NewLister(client *http.Client, cfg types.SourceConfig) ListFunc {
	return func(ctx context.Context) ([]types.Document, error) {
		return listing.ListDocuments(ctx, client, cfg)
	}
}

// Run executes the full batch: list the upstream tree, then download and
// convert each document in listing order, one at a time. A listing
// failure (or an empty listing) is fatal; everything after that is
// per-document and never aborts the batch.
func Run(ctx context.Context, client *http.Client, list ListFunc, extractors []extract.Extractor, cfg types.PipelineConfig, progress fetch.Progress, w io.Writer) (BatchResult, error) {
	docs, err := list(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing documents: %w", err)
	}
	if len(docs) == 0 {
		return BatchResult{}, fmt.Errorf("no PDF documents found in %s/%s@%s",
			cfg.Source.Owner, cfg.Source.Repo, cfg.Source.Branch)
	}

	fmt.Fprintf(w, "Found %d PDF files\n", len(docs))

	var result BatchResult
	for i, doc := range docs {
		fmt.Fprintf(w, "\n[%d/%d] %s\n", i+1, len(docs), doc.Name)

		local, _, err := fetch.FetchDocument(client, doc, cfg.Fetch, progress, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doc.Name, err)
			result.Record(types.Outcome{Document: doc, Method: types.MethodFailed, Error: err.Error()})
			continue
		}

		result.Record(ConvertDocument(ctx, extractors, *local, cfg.Convert, w))
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}
