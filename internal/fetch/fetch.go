// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads listed documents to the local PDF directory.
// Implements: prd002-download (R1-R4);
//
//	docs/ARCHITECTURE § Download.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/textmill/pkg/types"
)

// chunkSize bounds each read while streaming a download.
const chunkSize = 8192

// Progress receives transfer updates while a download streams. total is
// the Content-Length, or 0 when the server did not report one.
type Progress func(written, total int64)

// FetchDocument materializes one document as a local file. If a file
// already occupies the target path it is returned unconditionally as
// valid; no freshness or checksum validation is performed (R1.2).
// Otherwise the remote content is streamed in bounded chunks to a
// temporary file and renamed into place on success (R2.2). The skipped
// return value indicates whether the download was skipped.
func FetchDocument(client *http.Client, doc types.Document, cfg types.FetchConfig, progress Progress, w io.Writer) (local *types.LocalFile, skipped bool, err error) {
	pdfPath := filepath.Join(cfg.PDFDir, doc.Name)

	if info, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (already downloaded)\n", doc.Name)
		return &types.LocalFile{Document: doc, PDFPath: pdfPath, SizeBytes: info.Size()}, true, nil
	}

	if err := os.MkdirAll(cfg.PDFDir, 0o755); err != nil {
		return nil, false, fmt.Errorf("creating directory %s: %w", cfg.PDFDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", doc.Name)

	size, err := downloadFile(client, doc.RawURL, pdfPath, cfg, progress)
	if err != nil {
		return nil, false, fmt.Errorf("downloading %s: %w", doc.Name, err)
	}

	return &types.LocalFile{Document: doc, PDFPath: pdfPath, SizeBytes: size}, false, nil
}

// downloadFile streams url to destPath via a temporary file, reporting
// progress per chunk. The temp file is removed on any failure so a
// partial download never occupies the target path.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig, progress Progress) (int64, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	written, copyErr := copyChunked(tmpFile, resp.Body, total, progress)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return written, nil
}

// copyChunked copies src to dst in chunkSize reads, invoking progress
// after each chunk when set.
func copyChunked(dst io.Writer, src io.Reader, total int64, progress Progress) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
