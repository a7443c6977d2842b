package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/sirupsen/logrus"
)

// Client is the version control client the acquirer shells out to
type Client interface {
	// Clone clones url into dest including submodules, checked out at
	// branch when branch is not empty
	Clone(ctx context.Context, url, dest, branch string) error

	// Checkout switches the working copy in dir to branch
	Checkout(ctx context.Context, dir, branch string) error
}

// ExecClient implements Client by running the git binary
type ExecClient struct {
	binary string
	stdout io.Writer
	stderr io.Writer
}

// NewExecClient creates a client that runs git from PATH with its output
// attached to the terminal so clone progress stays visible
func NewExecClient() *ExecClient {
	return &ExecClient{
		binary: "git",
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Available reports whether the git binary can be found
func (c *ExecClient) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Clone implements Client
func (c *ExecClient) Clone(ctx context.Context, url, dest, branch string) error {
	args := []string{"clone", "--recursive"}
	if branch != "" {
		args = append(args, "-b", branch)
	}
	args = append(args, url, dest)
	return c.run(ctx, args...)
}

// Checkout implements Client
func (c *ExecClient) Checkout(ctx context.Context, dir, branch string) error {
	return c.run(ctx, "-C", dir, "checkout", branch)
}

func (c *ExecClient) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	logrus.Debugf("Running: %s", shellquote.Join(cmd.Args...))

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{Args: cmd.Args, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to run %s: %w", c.binary, err)
	}
	return nil
}

// CommandError is returned when git exits with a non-zero status
type CommandError struct {
	Args     []string
	ExitCode int
	Err      error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("command '%s' returned non-zero exit status %d", shellquote.Join(e.Args...), e.ExitCode)
}

// Unwrap returns the wrapped error
func (e *CommandError) Unwrap() error {
	return e.Err
}
