package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const ripgrepBinary = "rg"

// Ripgrep searches with the rg command line tool.
type Ripgrep struct {
	// Binary overrides the executable name. Empty means "rg".
	Binary string
}

// Search runs rg with pattern over dir. Each file contributes at most its
// first matching line. Ignore files are not honoured; hidden entries and
// "target" directories are skipped, as Native does.
func (r *Ripgrep) Search(ctx context.Context, pattern, dir string) ([]string, error) {
	out, err := r.output(ctx, "--no-heading", "--no-filename", "--no-line-number",
		"--no-ignore", "--glob", "!target/",
		"--max-count", "1", "--regexp", pattern, "--", dir)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch {
			case exitErr.ExitCode() == 1:
				// No match.
				return nil, nil
			case exitErr.ExitCode() == 2 && out != "":
				// Some files were unreadable but others matched.
				return splitLines(out), nil
			}
		}
		return nil, &ToolError{Tool: r.binary(), Pattern: pattern, Dir: dir, Err: err}
	}
	return splitLines(out), nil
}

// Version returns the first line of rg --version.
func (r *Ripgrep) Version(ctx context.Context) (string, error) {
	out, err := r.output(ctx, "--version")
	if err != nil {
		return "", err
	}
	lines := splitLines(out)
	if len(lines) == 0 {
		return "", fmt.Errorf("%s --version: empty output", r.binary())
	}
	return lines[0], nil
}

func (r *Ripgrep) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return ripgrepBinary
}

// output executes rg and returns its stdout, also on failure. Stderr is
// included in the error message.
func (r *Ripgrep) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary(), args...) //nolint:gosec // arguments are built by this package
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), err
		}
		return stdout.String(), fmt.Errorf("%w: %s", err, msg)
	}
	return stdout.String(), nil
}

// IsRipgrepInstalled returns true if rg is available on the system PATH.
func IsRipgrepInstalled() bool {
	_, err := exec.LookPath(ripgrepBinary)
	return err == nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
