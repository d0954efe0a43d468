// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDPI is the rasterization resolution for the OCR fallback.
const DefaultDPI = 300

// Rasterizer renders every page of a PDF into image files under dir at
// the given resolution, returning the image paths in document order.
type Rasterizer interface {
	Available() bool
	Render(ctx context.Context, pdfPath string, dpi int, dir string) ([]string, error)
}

// Recognizer converts one raster image to text.
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// OCRExtractor is the recognition-based fallback strategy. It needs both
// capabilities; if either is missing it fails immediately without
// attempting partial work. Unlike pdftotext there is no time budget.
type OCRExtractor struct {
	rasterizer Rasterizer
	recognizer Recognizer
	dpi        int
	w          io.Writer
}

// NewOCRExtractor creates the fallback extractor. Page progress lines go
// to w. A non-positive dpi selects the default (300).
func NewOCRExtractor(rasterizer Rasterizer, recognizer Recognizer, dpi int, w io.Writer) *OCRExtractor {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if w == nil {
		w = io.Discard
	}
	return &OCRExtractor{rasterizer: rasterizer, recognizer: recognizer, dpi: dpi, w: w}
}

// Name returns the strategy identifier.
func (e *OCRExtractor) Name() string { return "ocr" }

// Available reports whether both capabilities are present.
func (e *OCRExtractor) Available() bool {
	return e.rasterizer != nil && e.rasterizer.Available() &&
		e.recognizer != nil && e.recognizer.Available()
}

// Convert rasterizes every page, recognizes them strictly in document
// order, and writes the combined text with a "--- Page N ---" marker
// preceding each page block. The write is atomic: the combined text lands
// in a temp file renamed into place only after every page succeeded, so a
// reader never observes output from an incomplete pass.
func (e *OCRExtractor) Convert(ctx context.Context, pdfPath, textPath string) error {
	if !e.Available() {
		return fmt.Errorf("ocr capabilities unavailable for %s", pdfPath)
	}

	imgDir, err := os.MkdirTemp("", "textmill-ocr-")
	if err != nil {
		return fmt.Errorf("creating image directory: %w", err)
	}
	defer os.RemoveAll(imgDir)

	pages, err := e.rasterizer.Render(ctx, pdfPath, e.dpi, imgDir)
	if err != nil {
		return fmt.Errorf("rasterizing %s: %w", pdfPath, err)
	}

	blocks := make([]string, 0, len(pages))
	for i, img := range pages {
		fmt.Fprintf(e.w, "  ocr page %d/%d\n", i+1, len(pages))
		text, err := e.recognizer.Recognize(ctx, img)
		if err != nil {
			return fmt.Errorf("recognizing page %d of %s: %w", i+1, pdfPath, err)
		}
		blocks = append(blocks, fmt.Sprintf("--- Page %d ---\n%s\n", i+1, text))
	}

	return writeAtomic(textPath, strings.Join(blocks, "\n"))
}

// writeAtomic writes content to path via a temp file in the same
// directory, renamed into place on success.
func writeAtomic(path, content string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".ocr-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.WriteString(content)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing text: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
