package search

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Native walks the directory tree in process. Hidden entries and Cargo
// "target" directories are skipped and ignore files are not read, matching
// the flags Ripgrep passes to rg.
type Native struct{}

// Search returns the first matching line of every file under dir.
func (n *Native) Search(ctx context.Context, pattern, dir string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ToolError{Tool: "native", Pattern: pattern, Dir: dir, Err: err}
	}

	var matches []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path != dir && skipEntry(d) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		line, ok, err := firstMatch(path, re)
		if err != nil {
			return err
		}
		if ok {
			matches = append(matches, line)
		}
		return nil
	})
	if walkErr != nil {
		return nil, &ToolError{Tool: "native", Pattern: pattern, Dir: dir, Err: walkErr}
	}
	return matches, nil
}

func skipEntry(d fs.DirEntry) bool {
	name := d.Name()
	if strings.HasPrefix(name, ".") {
		return true
	}
	return d.IsDir() && name == "target"
}

func firstMatch(path string, re *regexp.Regexp) (string, bool, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from walking the source tree
	if err != nil {
		return "", false, err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		b := sc.Bytes()
		if bytes.IndexByte(b, 0) != -1 {
			// Binary file.
			return "", false, nil
		}
		if re.Match(b) {
			return string(b), true, nil
		}
	}
	return "", false, sc.Err()
}
