package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textmill/internal/listing"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List PDF documents in the upstream repository",
	Long: `List fetches the recursive tree of the upstream branch and prints every
PDF it would convert, in listing order. Nothing is downloaded.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("owner", "", "upstream repository owner")
	listCmd.Flags().String("repo", "", "upstream repository name")
	listCmd.Flags().String("branch", "", "upstream branch")
	listCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	cfg := sourceConfig(cmd, timeout)
	client := &http.Client{Timeout: cfg.Timeout}

	docs, err := listing.ListDocuments(cmd.Context(), client, cfg)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	for _, doc := range docs {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", doc.Name, doc.Path)
	}
	fmt.Fprintf(os.Stdout, "\n%d PDF files in %s/%s@%s\n", len(docs), cfg.Owner, cfg.Repo, cfg.Branch)
	return nil
}
