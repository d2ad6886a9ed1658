package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return dir
}

func searchers(t *testing.T) map[string]Searcher {
	t.Helper()
	s := map[string]Searcher{"native": &Native{}}
	if IsRipgrepInstalled() {
		s["rg"] = &Ripgrep{}
	}
	return s
}

func TestSearch_matches(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.rs":        "use serde::Deserialize;\nfn main() {}\n",
		"nested/util.rs": "fn f() { tokio::spawn(async {}); }\n",
		"other.rs":       "fn g() {}\n",
	})

	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			lines, err := s.Search(context.Background(), `tokio::|use tokio|extern crate tokio`, dir)
			require.NoError(t, err)
			assert.Len(t, lines, 1)

			lines, err = s.Search(context.Background(), `serde::|use serde`, dir)
			require.NoError(t, err)
			assert.Equal(t, []string{"use serde::Deserialize;"}, lines)
		})
	}
}

func TestSearch_noMatchIsEmpty(t *testing.T) {
	dir := writeTree(t, map[string]string{"lib.rs": "pub fn f() {}\n"})

	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			lines, err := s.Search(context.Background(), `anyhow::`, dir)
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestSearch_missingDirIsToolError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Search(context.Background(), `x::`, missing)
			require.Error(t, err)
			var te *ToolError
			assert.True(t, errors.As(err, &te), "expected *ToolError, got %T", err)
		})
	}
}

func TestSearch_skipsHiddenAndTarget(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".cache/a.rs":  "use rand;\n",
		"target/b.rs":  "use rand;\n",
		"src/main.rs":  "fn main() {}\n",
		"src/.hidden":  "use rand;\n",
		"src/notes.md": "nothing\n",
	})

	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			lines, err := s.Search(context.Background(), `use rand`, dir)
			require.NoError(t, err)
			assert.Empty(t, lines)
		})
	}
}

func TestSearch_ignoreFilesNotHonoured(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".ignore":    "gen/\n",
		".gitignore": "gen/\n",
		"gen/api.rs": "use prost::Message;\n",
	})

	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			lines, err := s.Search(context.Background(), `prost::`, dir)
			require.NoError(t, err)
			assert.Equal(t, []string{"use prost::Message;"}, lines)
		})
	}
}

// fakeRipgrep writes a shell script standing in for rg.
func fakeRipgrep(t *testing.T, script string) *Ripgrep {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "rg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0700)) //nolint:gosec // test executable
	return &Ripgrep{Binary: path}
}

func TestRipgrep_exitStatus(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    []string
		wantErr bool
	}{
		{"match", "echo 'use serde::X;'\n", []string{"use serde::X;"}, false},
		{"no match", "exit 1\n", nil, false},
		{"partial failure with match", "echo 'use serde::X;'\necho 'permission denied' >&2\nexit 2\n", []string{"use serde::X;"}, false},
		{"failure without match", "echo 'permission denied' >&2\nexit 2\n", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rg := fakeRipgrep(t, tt.script)
			lines, err := rg.Search(context.Background(), `serde::`, t.TempDir())
			if tt.wantErr {
				var te *ToolError
				require.ErrorAs(t, err, &te)
				assert.Contains(t, err.Error(), "permission denied")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestNative_invalidPattern(t *testing.T) {
	_, err := (&Native{}).Search(context.Background(), `(`, t.TempDir())
	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "native", te.Tool)
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
		err   bool
	}{
		{"auto", KindAuto, false},
		{"", KindAuto, false},
		{"rg", KindRipgrep, false},
		{"native", KindNative, false},
		{"grep", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			assert.Equal(t, tt.err, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New(KindNative)
	require.NoError(t, err)
	assert.IsType(t, &Native{}, s)

	s, err = New(KindAuto)
	require.NoError(t, err)
	if IsRipgrepInstalled() {
		assert.IsType(t, &Ripgrep{}, s)
	} else {
		assert.IsType(t, &Native{}, s)
	}
}

func TestRipgrep_Version(t *testing.T) {
	if !IsRipgrepInstalled() {
		t.Skip("rg not installed")
	}
	v, err := (&Ripgrep{}).Version(context.Background())
	require.NoError(t, err)
	assert.Contains(t, v, "ripgrep")
}
