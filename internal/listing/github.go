// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing enumerates PDF documents in the upstream repository.
// Implements: prd001-listing (R1-R3);
//
//	docs/ARCHITECTURE § Listing.
package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/pdiddy/textmill/pkg/types"
)

// Endpoint bases are declared as vars so tests can substitute an
// httptest server.
var (
	apiBase = "https://api.github.com"
	rawBase = "https://raw.githubusercontent.com"
)

// pdfSuffix filters tree entries to the documents this pipeline converts.
const pdfSuffix = ".pdf"

// treeResponse mirrors the GitHub git/trees API payload.
type treeResponse struct {
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// ListDocuments fetches the recursive tree of the configured branch and
// returns every blob whose path ends in .pdf (case-insensitive), in the
// traversal order of the listing call. A failed listing is fatal to the
// run: the caller processes zero documents and exits non-zero (R3.1).
func ListDocuments(ctx context.Context, client *http.Client, cfg types.SourceConfig) ([]types.Document, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		apiBase, cfg.Owner, cfg.Repo, cfg.Branch)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tree listing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tree listing for %s/%s@%s returned HTTP %d",
			cfg.Owner, cfg.Repo, cfg.Branch, resp.StatusCode)
	}

	var tr treeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing tree listing: %w", err)
	}

	var docs []types.Document
	for _, entry := range tr.Tree {
		if entry.Type != "blob" {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Path), pdfSuffix) {
			continue
		}
		docs = append(docs, types.Document{
			Name:   path.Base(entry.Path),
			Path:   entry.Path,
			RawURL: fmt.Sprintf("%s/%s/%s/%s/%s", rawBase, cfg.Owner, cfg.Repo, cfg.Branch, entry.Path),
		})
	}
	return docs, nil
}
