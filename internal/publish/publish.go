// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish commits produced text files to the working repository.
// Implements: prd004-publish (R1-R3);
//
//	docs/ARCHITECTURE § Publish.
package publish

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/pdiddy/textmill/pkg/types"
)

const (
	commitAuthorName  = "github-actions[bot]"
	commitAuthorEmail = "github-actions[bot]@users.noreply.github.com"
	commitMessage     = "Add converted PDF texts [automated]"
)

// executor abstracts command execution for testing.
type executor interface {
	RunSilent(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

var defaultExec executor = &osExecutor{}

// Publisher stages and commits the text directory. The core pipeline
// only consumes the trigger contract: publish when enabled, a credential
// is present, and at least one document succeeded. Publish failures are
// reported but never alter the exit status decided by conversion results.
type Publisher struct {
	cfg  types.PublishConfig
	exec executor
	w    io.Writer
}

// New creates a Publisher writing status lines to w.
func New(cfg types.PublishConfig, w io.Writer) *Publisher {
	return &Publisher{cfg: cfg, exec: defaultExec, w: w}
}

// ShouldPublish reports whether the publish step runs at all, printing
// the reason when it does not.
func (p *Publisher) ShouldPublish(succeeded int) bool {
	if !p.cfg.Enabled {
		fmt.Fprintln(p.w, "publish not enabled, skipping commit")
		return false
	}
	if p.cfg.Token == "" {
		fmt.Fprintln(p.w, "warning: publish enabled but no github-token found, skipping commit")
		return false
	}
	if succeeded == 0 {
		fmt.Fprintln(p.w, "no successful conversions, skipping commit")
		return false
	}
	return true
}

// Publish configures the commit identity, stages the text directory, and
// commits and pushes when anything is staged.
func (p *Publisher) Publish() error {
	steps := [][]string{
		{"config", "user.name", commitAuthorName},
		{"config", "user.email", commitAuthorEmail},
		{"add", p.cfg.TextDir},
	}
	for _, args := range steps {
		if err := p.exec.RunSilent("git", args...); err != nil {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
	}

	// diff --cached --quiet exits zero when nothing is staged.
	if err := p.exec.RunSilent("git", "diff", "--cached", "--quiet"); err == nil {
		fmt.Fprintln(p.w, "no changes to commit")
		return nil
	}

	if err := p.exec.RunSilent("git", "commit", "-m", commitMessage); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if err := p.exec.RunSilent("git", "push"); err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	fmt.Fprintln(p.w, "committed and pushed text files")
	return nil
}
