package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textmill/internal/extract"
	"github.com/pdiddy/textmill/internal/pipeline"
	"github.com/pdiddy/textmill/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdfs...]",
	Short: "Convert already-downloaded PDFs to plain text",
	Long: `Convert runs the extraction fallback chain over local PDF files without
touching the network. With no arguments it processes every PDF in the PDF
directory. Existing text outputs are skipped.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("pdf-dir", "pdfs", "directory holding downloaded PDFs")
	convertCmd.Flags().String("text-dir", "texts", "directory for text outputs")
	convertCmd.Flags().Duration("convert-timeout", 0, "pdftotext time budget (default 300s)")
	convertCmd.Flags().Int("dpi", 0, "OCR rasterization resolution (default 300)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	textDir, _ := cmd.Flags().GetString("text-dir")
	convertTimeout, _ := cmd.Flags().GetDuration("convert-timeout")
	dpi, _ := cmd.Flags().GetInt("dpi")

	pdfPaths := args
	if len(pdfPaths) == 0 {
		matches, err := filepath.Glob(filepath.Join(pdfDir, "*.pdf"))
		if err != nil {
			return fmt.Errorf("globbing %s: %w", pdfDir, err)
		}
		sort.Strings(matches)
		pdfPaths = matches
	}
	if len(pdfPaths) == 0 {
		return fmt.Errorf("no PDF files found in %s", pdfDir)
	}

	cfg := types.ConvertConfig{
		TextDir:          textDir,
		PdftotextTimeout: convertTimeout,
		DPI:              dpi,
	}
	extractors := []extract.Extractor{
		extract.NewPdftotextExtractor(cfg.PdftotextTimeout),
		extract.NewOCRExtractor(
			extract.NewPdftoppmRasterizer(),
			extract.NewTesseractRecognizer(),
			cfg.DPI,
			os.Stdout,
		),
	}

	var result pipeline.BatchResult
	for i, pdfPath := range pdfPaths {
		fmt.Fprintf(os.Stdout, "\n[%d/%d] %s\n", i+1, len(pdfPaths), filepath.Base(pdfPath))

		info, err := os.Stat(pdfPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", pdfPath, err)
		}

		local := types.LocalFile{
			Document:  types.Document{Name: filepath.Base(pdfPath), Path: pdfPath},
			PDFPath:   pdfPath,
			SizeBytes: info.Size(),
		}
		result.Record(pipeline.ConvertDocument(cmd.Context(), extractors, local, cfg, os.Stdout))
	}

	fmt.Fprintf(os.Stdout, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())

	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}
