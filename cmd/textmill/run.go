package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textmill/internal/extract"
	"github.com/pdiddy/textmill/internal/fetch"
	"github.com/pdiddy/textmill/internal/ledger"
	"github.com/pdiddy/textmill/internal/pipeline"
	"github.com/pdiddy/textmill/internal/publish"
	"github.com/pdiddy/textmill/pkg/types"
)

const (
	defaultOwner     = "tyndivelspaz"
	defaultRepo      = "DnD-Manuals"
	defaultBranch    = "main"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "textmill/0.1"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "List, download, and convert every upstream PDF",
	Long: `Run executes the full pipeline: list PDFs in the upstream repository
tree, download each one (skipping files already on disk), and convert each to
plain text through the fallback chain. Existing text outputs are skipped.
The exit status is non-zero when listing fails or any document fails.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("owner", "", "upstream repository owner")
	runCmd.Flags().String("repo", "", "upstream repository name")
	runCmd.Flags().String("branch", "", "upstream branch")
	runCmd.Flags().String("pdf-dir", "pdfs", "directory for downloaded PDFs")
	runCmd.Flags().String("text-dir", "texts", "directory for text outputs")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Duration("convert-timeout", 0, "pdftotext time budget (default 300s)")
	runCmd.Flags().Int("dpi", 0, "OCR rasterization resolution (default 300)")
	runCmd.Flags().Bool("commit", false, "commit and push produced texts on success")
	runCmd.Flags().String("ledger", "textmill.db", "run-ledger database path (empty disables)")
	runCmd.Flags().String("report", "report.yaml", "batch report path (empty disables)")

	viper.SetDefault("source.owner", defaultOwner)
	viper.SetDefault("source.repo", defaultRepo)
	viper.SetDefault("source.branch", defaultBranch)

	rootCmd.AddCommand(runCmd)
}

// sourceConfig resolves the upstream coordinates from flag, config file,
// then built-in default, and attaches the listing credential.
func sourceConfig(cmd *cobra.Command, timeout time.Duration) types.SourceConfig {
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		owner = viper.GetString("source.owner")
	}
	repo, _ := cmd.Flags().GetString("repo")
	if repo == "" {
		repo = viper.GetString("source.repo")
	}
	branch, _ := cmd.Flags().GetString("branch")
	if branch == "" {
		branch = viper.GetString("source.branch")
	}

	return types.SourceConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Owner:  owner,
		Repo:   repo,
		Branch: branch,
		Token:  secretDefault("github-token", viper.GetString("github_token")),
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pdfDir, _ := cmd.Flags().GetString("pdf-dir")
	textDir, _ := cmd.Flags().GetString("text-dir")
	convertTimeout, _ := cmd.Flags().GetDuration("convert-timeout")
	dpi, _ := cmd.Flags().GetInt("dpi")
	commit, _ := cmd.Flags().GetBool("commit")
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	reportPath, _ := cmd.Flags().GetString("report")

	src := sourceConfig(cmd, timeout)
	cfg := types.PipelineConfig{
		Source: src,
		Fetch: types.FetchConfig{
			HTTPConfig: src.HTTPConfig,
			PDFDir:     pdfDir,
		},
		Convert: types.ConvertConfig{
			TextDir:          textDir,
			PdftotextTimeout: convertTimeout,
			DPI:              dpi,
		},
		Publish: types.PublishConfig{
			Enabled: commit,
			Token:   src.Token,
			TextDir: textDir,
		},
		LedgerPath: ledgerPath,
	}

	client := &http.Client{Timeout: cfg.Source.Timeout}
	extractors := []extract.Extractor{
		extract.NewPdftotextExtractor(cfg.Convert.PdftotextTimeout),
		extract.NewOCRExtractor(
			extract.NewPdftoppmRasterizer(),
			extract.NewTesseractRecognizer(),
			cfg.Convert.DPI,
			os.Stdout,
		),
	}

	started := time.Now()
	lister := pipeline.NewLister(client, cfg.Source)
	result, err := pipeline.Run(cmd.Context(), client, lister, extractors, cfg, transferProgress(os.Stdout), os.Stdout)
	if err != nil {
		return err
	}
	finished := time.Now()

	if reportPath != "" {
		if err := pipeline.WriteReport(result, reportPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: writing report: %v\n", err)
		}
	}

	if cfg.LedgerPath != "" {
		recordRun(cfg.LedgerPath, started, finished, result)
	}

	pub := publish.New(cfg.Publish, os.Stdout)
	if pub.ShouldPublish(result.Succeeded()) {
		if err := pub.Publish(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: publish failed: %v\n", err)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

// recordRun writes the batch to the ledger; ledger trouble is a warning,
// never a batch failure.
func recordRun(path string, started, finished time.Time, result pipeline.BatchResult) {
	store, err := ledger.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening ledger: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(started, finished, result.Outcomes); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}

// transferProgress prints a progress line once per mebibyte when the
// server reported a content length.
func transferProgress(w io.Writer) fetch.Progress {
	const mib = 1024 * 1024
	var lastMB int64 = -1
	return func(written, total int64) {
		if total <= 0 {
			return
		}
		mb := written / mib
		if mb > lastMB {
			lastMB = mb
			fmt.Fprintf(w, "    %.1f MB / %.1f MB\r", float64(written)/mib, float64(total)/mib)
		}
	}
}
