package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"commitaid/internal/commit"
	"commitaid/internal/config"
	"commitaid/internal/debug"
	"commitaid/internal/git"
	"commitaid/internal/llm"
	"commitaid/internal/prompt"
	"commitaid/internal/ui"
)

type diffSource interface {
	StagedDiff(ctx context.Context, contextLines int, exclude ...string) (string, error)
}

type completer interface {
	ValidateContext(ctx context.Context, ex llm.Exchange) (string, error)
	GenerateCommit(ctx context.Context, ex llm.Exchange, contextText string, cfg prompt.CommitConfig) (commit.Args, error)
}

// generator runs diff retrieval, the two completion calls and formatting,
// strictly in that order.
type generator struct {
	repo    diffSource
	connect func(cfg *config.Config) (completer, error)
	stdout  io.Writer
	stderr  io.Writer
}

func (g *generator) run(ctx context.Context, commitCfg prompt.CommitConfig, cfg *config.Config) error {
	diff, err := g.repo.StagedDiff(ctx, cfg.ContextLines, cfg.Exclude...)
	if errors.Is(err, git.ErrNoStagedChanges) {
		ui.Errorf(g.stderr, "No Staged files. Please stage files and try again.")
		return nil
	}
	if err != nil {
		return err
	}
	debug.Printf("[DEBUG] Staged diff: %d bytes\n", len(diff))

	client, err := g.connect(cfg)
	if err != nil {
		return err
	}

	ex := llm.NewExchange(commitCfg, diff)

	var contextText string
	err = ui.Spin(g.stderr, "Reviewing staged changes...", func() error {
		var err error
		contextText, err = client.ValidateContext(ctx, ex)
		return err
	})
	if errors.Is(err, llm.ErrContextValidation) {
		ui.Errorf(g.stderr, "context validation failed")
		return nil
	}
	if err != nil {
		return err
	}
	debug.Printf("context validation: %s\n", contextText)

	var args commit.Args
	err = ui.Spin(g.stderr, "Writing commit message...", func() error {
		var err error
		args, err = client.GenerateCommit(ctx, ex, contextText, commitCfg)
		return err
	})
	if err != nil {
		return err
	}

	if missing := commit.Missing(args, commitCfg.ForceBody); len(missing) > 0 {
		ui.Warnf(g.stderr, "warning: commit is missing required fields: %s", strings.Join(missing, ", "))
	}

	if err := commit.Write(g.stdout, args); err != nil {
		return fmt.Errorf("failed to write commit message: %w", err)
	}
	return nil
}
