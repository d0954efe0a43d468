// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
)

const (
	binPdftoppm  = "pdftoppm"
	binTesseract = "tesseract"
)

// PdftoppmRasterizer renders PDF pages to PNG files with the poppler
// pdftoppm binary.
type PdftoppmRasterizer struct {
	exec executor
}

// NewPdftoppmRasterizer creates the production rasterizer.
func NewPdftoppmRasterizer() *PdftoppmRasterizer {
	return &PdftoppmRasterizer{exec: defaultExec}
}

// Available reports whether the pdftoppm binary is on PATH.
func (r *PdftoppmRasterizer) Available() bool {
	_, err := r.exec.LookPath(binPdftoppm)
	return err == nil
}

// Render writes one PNG per page under dir and returns the paths in page
// order. pdftoppm zero-pads page numbers in filenames, so lexical order
// is page order.
func (r *PdftoppmRasterizer) Render(ctx context.Context, pdfPath string, dpi int, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	if err := r.exec.Run(ctx, binPdftoppm, "-r", strconv.Itoa(dpi), "-png", pdfPath, prefix); err != nil {
		return nil, fmt.Errorf("pdftoppm on %s: %w", pdfPath, err)
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("globbing page images: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages for %s", pdfPath)
	}
	sort.Strings(pages)
	return pages, nil
}

// TesseractRecognizer converts raster images to text with the tesseract
// binary.
type TesseractRecognizer struct {
	exec executor
}

// NewTesseractRecognizer creates the production recognizer.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{exec: defaultExec}
}

// Available reports whether the tesseract binary is on PATH.
func (r *TesseractRecognizer) Available() bool {
	_, err := r.exec.LookPath(binTesseract)
	return err == nil
}

// Recognize runs tesseract on one image, writing to stdout.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	out, err := r.exec.Output(ctx, binTesseract, imagePath, "stdout")
	if err != nil {
		return "", fmt.Errorf("tesseract on %s: %w", imagePath, err)
	}
	return string(out), nil
}
