package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "textmill/0.1"). Per prd002-download R4.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig identifies the upstream repository holding the PDFs.
// Per prd001-listing R1.1-R1.3.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// Owner is the GitHub account owning the upstream repository.
	Owner string `json:"owner" yaml:"owner"`

	// Repo is the upstream repository name.
	Repo string `json:"repo" yaml:"repo"`

	// Branch is the branch whose tree is listed (default "main").
	Branch string `json:"branch" yaml:"branch"`

	// Token is an optional bearer credential for the listing call.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
}

// FetchConfig holds settings for the download stage.
// Per prd002-download R2.1-R2.3.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// PDFDir is the directory downloaded PDFs are written to.
	PDFDir string `json:"pdf_dir" yaml:"pdf_dir"`
}

// ConvertConfig holds settings for the conversion stage.
// Per prd003-conversion R5.1-R5.3.
type ConvertConfig struct {
	// TextDir is the directory text outputs are written to.
	TextDir string `json:"text_dir" yaml:"text_dir"`

	// PdftotextTimeout bounds a single pdftotext invocation (default 300s).
	PdftotextTimeout time.Duration `json:"pdftotext_timeout" yaml:"pdftotext_timeout"`

	// DPI is the rasterization resolution for the OCR fallback (default 300).
	DPI int `json:"dpi" yaml:"dpi"`
}

// PublishConfig holds settings for the optional commit-outputs step.
// Per prd004-publish R1.1-R1.3.
type PublishConfig struct {
	// Enabled turns the publish step on. Off by default.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Token is the credential required to push. Publishing is skipped
	// when Enabled is set but no token is present.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// TextDir is the directory staged for commit.
	TextDir string `json:"text_dir" yaml:"text_dir"`
}

// PipelineConfig groups all stage configurations for one batch run.
type PipelineConfig struct {
	Source  SourceConfig  `json:"source" yaml:"source"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// LedgerPath is the SQLite run-history database path. Empty disables
	// the ledger.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}
