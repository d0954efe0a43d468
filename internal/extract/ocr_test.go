// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRasterizer implements Rasterizer with canned page names.
type fakeRasterizer struct {
	pages       []string
	err         error
	unavailable bool
	calls       int
	gotDPI      int
}

func (f *fakeRasterizer) Available() bool { return !f.unavailable }

func (f *fakeRasterizer) Render(ctx context.Context, pdfPath string, dpi int, dir string) ([]string, error) {
	f.calls++
	f.gotDPI = dpi
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

// fakeRecognizer implements Recognizer, mapping page names to text.
type fakeRecognizer struct {
	texts       map[string]string
	errs        map[string]error
	unavailable bool
	order       []string
}

func (f *fakeRecognizer) Available() bool { return !f.unavailable }

func (f *fakeRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	f.order = append(f.order, imagePath)
	if err, ok := f.errs[imagePath]; ok {
		return "", err
	}
	return f.texts[imagePath], nil
}

func TestOCRExtractor_Convert(t *testing.T) {
	ras := &fakeRasterizer{pages: []string{"p1.png", "p2.png", "p3.png"}}
	rec := &fakeRecognizer{texts: map[string]string{
		"p1.png": "first page",
		"p2.png": "second page",
		"p3.png": "third page",
	}}

	var log bytes.Buffer
	e := NewOCRExtractor(ras, rec, 0, &log)

	textPath := filepath.Join(t.TempDir(), "manual.txt")
	require.NoError(t, e.Convert(context.Background(), "manual.pdf", textPath))

	data, err := os.ReadFile(textPath)
	require.NoError(t, err)

	want := "--- Page 1 ---\nfirst page\n" +
		"\n--- Page 2 ---\nsecond page\n" +
		"\n--- Page 3 ---\nthird page\n"
	assert.Equal(t, want, string(data))

	// Pages are recognized strictly in document order.
	assert.Equal(t, []string{"p1.png", "p2.png", "p3.png"}, rec.order)
	assert.Equal(t, DefaultDPI, ras.gotDPI)
	assert.Contains(t, log.String(), "ocr page 1/3")
}

func TestOCRExtractor_Available(t *testing.T) {
	tests := []struct {
		name string
		ras  Rasterizer
		rec  Recognizer
		want bool
	}{
		{"both present", &fakeRasterizer{}, &fakeRecognizer{}, true},
		{"rasterizer missing", &fakeRasterizer{unavailable: true}, &fakeRecognizer{}, false},
		{"recognizer missing", &fakeRasterizer{}, &fakeRecognizer{unavailable: true}, false},
		{"nil rasterizer", nil, &fakeRecognizer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewOCRExtractor(tt.ras, tt.rec, 0, nil)
			assert.Equal(t, tt.want, e.Available())
		})
	}
}

func TestOCRExtractor_MissingCapabilityDoesNoWork(t *testing.T) {
	ras := &fakeRasterizer{pages: []string{"p1.png"}}
	rec := &fakeRecognizer{unavailable: true}
	e := NewOCRExtractor(ras, rec, 0, nil)

	textPath := filepath.Join(t.TempDir(), "manual.txt")
	err := e.Convert(context.Background(), "manual.pdf", textPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")

	// No raster pass is performed and no file appears at the output path.
	assert.Zero(t, ras.calls)
	_, statErr := os.Stat(textPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOCRExtractor_RecognitionFailureLeavesNoOutput(t *testing.T) {
	ras := &fakeRasterizer{pages: []string{"p1.png", "p2.png"}}
	rec := &fakeRecognizer{
		texts: map[string]string{"p1.png": "fine"},
		errs:  map[string]error{"p2.png": errors.New("recognition crashed")},
	}
	e := NewOCRExtractor(ras, rec, 0, nil)

	dir := t.TempDir()
	textPath := filepath.Join(dir, "manual.txt")
	err := e.Convert(context.Background(), "manual.pdf", textPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")

	// A mid-pass failure must never leave observable output.
	_, statErr := os.Stat(textPath)
	assert.True(t, os.IsNotExist(statErr))
	leftovers, globErr := filepath.Glob(filepath.Join(dir, ".ocr-*.tmp"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers)
}

func TestOCRExtractor_RasterizeFailure(t *testing.T) {
	ras := &fakeRasterizer{err: errors.New("broken pdf")}
	e := NewOCRExtractor(ras, &fakeRecognizer{}, 0, nil)

	textPath := filepath.Join(t.TempDir(), "manual.txt")
	err := e.Convert(context.Background(), "manual.pdf", textPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterizing")
}

func TestOCRExtractor_CustomDPI(t *testing.T) {
	ras := &fakeRasterizer{pages: []string{"p1.png"}}
	rec := &fakeRecognizer{texts: map[string]string{"p1.png": "text"}}
	e := NewOCRExtractor(ras, rec, 150, nil)

	textPath := filepath.Join(t.TempDir(), "manual.txt")
	require.NoError(t, e.Convert(context.Background(), "manual.pdf", textPath))
	assert.Equal(t, 150, ras.gotDPI)
}

func TestPdftoppmRasterizer_Render(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeExec{}
	// Simulate pdftoppm writing zero-padded page images.
	for _, n := range []string{"page-01.png", "page-02.png", "page-10.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("png"), 0o644))
	}

	r := &PdftoppmRasterizer{exec: fake}
	pages, err := r.Render(context.Background(), "manual.pdf", 300, dir)
	require.NoError(t, err)

	assert.Equal(t, "pdftoppm", fake.gotName)
	assert.Equal(t, []string{"-r", "300", "-png", "manual.pdf", filepath.Join(dir, "page")}, fake.gotArgs)

	want := []string{
		filepath.Join(dir, "page-01.png"),
		filepath.Join(dir, "page-02.png"),
		filepath.Join(dir, "page-10.png"),
	}
	assert.Equal(t, want, pages)
}

func TestPdftoppmRasterizer_NoPages(t *testing.T) {
	r := &PdftoppmRasterizer{exec: &fakeExec{}}
	_, err := r.Render(context.Background(), "manual.pdf", 300, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages")
}

func TestTesseractRecognizer_Recognize(t *testing.T) {
	fake := &fakeExec{outputData: []byte("recognized text")}
	r := &TesseractRecognizer{exec: fake}

	text, err := r.Recognize(context.Background(), "page-01.png")
	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)
	assert.Equal(t, "tesseract", fake.gotName)
	assert.Equal(t, []string{"page-01.png", "stdout"}, fake.gotArgs)
}

func TestTesseractRecognizer_Error(t *testing.T) {
	fake := &fakeExec{outputErr: fmt.Errorf("exit status 1")}
	r := &TesseractRecognizer{exec: fake}

	_, err := r.Recognize(context.Background(), "page-01.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract on page-01.png")
}
