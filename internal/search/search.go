package search

import (
	"context"
	"fmt"
)

// Searcher looks for lines matching pattern in every file under dir.
// No match is an empty result, not an error.
type Searcher interface {
	Search(ctx context.Context, pattern, dir string) ([]string, error)
}

// Kind selects a Searcher implementation.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindRipgrep Kind = "rg"
	KindNative  Kind = "native"
)

// ParseKind parses a search kind, defaulting to "auto".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAuto, "":
		return KindAuto, nil
	case KindRipgrep:
		return KindRipgrep, nil
	case KindNative:
		return KindNative, nil
	default:
		return "", fmt.Errorf("unknown search kind: %q (must be auto, rg, or native)", s)
	}
}

// New returns the Searcher for kind. Auto prefers ripgrep when it is on PATH.
func New(kind Kind) (Searcher, error) {
	switch kind {
	case KindAuto, "":
		if IsRipgrepInstalled() {
			return &Ripgrep{}, nil
		}
		return &Native{}, nil
	case KindRipgrep:
		if !IsRipgrepInstalled() {
			return nil, fmt.Errorf("ripgrep (rg) not found on PATH")
		}
		return &Ripgrep{}, nil
	case KindNative:
		return &Native{}, nil
	default:
		return nil, fmt.Errorf("unknown search kind: %q", kind)
	}
}

// ToolError reports a failed search. Callers treat it as "no match".
type ToolError struct {
	Tool    string
	Pattern string
	Dir     string
	Err     error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s search for %q in %s: %v", e.Tool, e.Pattern, e.Dir, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }
