package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

const globalMarker = ".workspace=true"

// ReadError reports a manifest that is missing or cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading manifest %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Options tunes parsing. The zero value skips SentinelAlias only.
type Options struct {
	// Ignore lists names never recorded in addition to SentinelAlias.
	Ignore []Name
}

// Load reads and parses the manifest at path.
func Load(id PackageID, path string, opts Options) (*DependencySet, []MalformedLine, error) {
	f, err := os.Open(path) //nolint:gosec // path is a workspace manifest path
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	set, malformed, err := Parse(id, f, opts)
	if err != nil {
		return nil, nil, &ReadError{Path: path, Err: err}
	}
	return set, malformed, nil
}

// Parse extracts the dependency tables of a manifest read from r.
//
// A table is any section whose header ends in "dependencies]". Each entry
// is classified as global when its whitespace-free line contains
// ".workspace=true", specific otherwise.
func Parse(id PackageID, r io.Reader, opts Options) (*DependencySet, []MalformedLine, error) {
	ignore := toSet(opts.Ignore)
	ignore[SentinelAlias] = true

	set := &DependencySet{Package: id}
	var malformed []MalformedLine

	inTable := false
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := stripSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inTable = strings.HasSuffix(line, "dependencies]")
			continue
		}
		if !inTable {
			continue
		}

		name, ok := entryName(line)
		if !ok {
			malformed = append(malformed, MalformedLine{Line: lineNo, Text: sc.Text()})
			continue
		}
		if ignore[name] {
			continue
		}
		if strings.Contains(line, globalMarker) {
			set.Global = append(set.Global, name)
		} else {
			set.Specific = append(set.Specific, name)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return set, malformed, nil
}

// entryName returns the part of a table line before the first '.' or '='.
func entryName(line string) (Name, bool) {
	end := strings.IndexAny(line, ".=")
	if end == -1 {
		end = len(line)
	}
	name := line[:end]
	if !validName(name) {
		return "", false
	}
	return Name(name), true
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func toSet(names []Name) map[Name]bool {
	m := make(map[Name]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
