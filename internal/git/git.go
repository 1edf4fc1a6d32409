package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"commitaid/internal/debug"
)

const (
	// DefaultContextLines is the number of unchanged lines around each hunk.
	DefaultContextLines = 5
	// DefaultExclude is left out of every diff; lockfile churn drowns the model.
	DefaultExclude = "package-lock.json"
)

// ErrNoStagedChanges is returned when git reports an empty staged diff.
var ErrNoStagedChanges = errors.New("no staged files")

// Repository runs git in Dir. The zero value uses the process working directory.
type Repository struct {
	Dir string
}

func (r Repository) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	return cmd
}

// DiffArgs returns the git arguments used to produce the staged diff.
func DiffArgs(contextLines int, exclude ...string) []string {
	args := []string{"diff", "--staged", "--raw", "-U" + strconv.Itoa(contextLines)}
	if len(exclude) == 0 {
		return args
	}
	args = append(args, "--")
	for _, path := range exclude {
		args = append(args, ":!"+path)
	}
	return args
}

// StagedDiff returns the staged changes as unified diff text with
// contextLines lines of context, leaving out the exclude paths.
func (r Repository) StagedDiff(ctx context.Context, contextLines int, exclude ...string) (string, error) {
	if contextLines < 0 {
		return "", fmt.Errorf("context lines must not be negative, got %d", contextLines)
	}

	args := DiffArgs(contextLines, exclude...)
	debug.Printf("[DEBUG] git %s\n", strings.Join(args, " "))

	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to get staged diff: %w\nOutput: %s", err, stderr.String())
	}

	if stdout.Len() == 0 {
		return "", ErrNoStagedChanges
	}
	return stdout.String(), nil
}
