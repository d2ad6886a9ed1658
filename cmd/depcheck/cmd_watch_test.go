package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/testutil"
	"github.com/fbkclanna/depcheck/internal/workspace"
)

func TestWatchDirs(t *testing.T) {
	wsDir := testutil.ScenarioWorkspace(t)
	testutil.WriteFile(t, wsDir, "front/src/net/mod.rs", "")
	testutil.WriteFile(t, wsDir, "front/src/.cache/x", "")
	testutil.WriteFile(t, wsDir, "back/src/target/y", "")

	ws, err := workspace.Load(wsDir, config.Default(), nil)
	if err != nil {
		t.Fatal(err)
	}

	got := watchDirs(ws)
	var rel []string
	for _, d := range got {
		r, err := filepath.Rel(ws.Root, d)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{".", "back", "back/src", "front", "front/src", "front/src/net"}
	if strings.Join(rel, ",") != strings.Join(want, ",") {
		t.Errorf("watchDirs = %v, want %v", rel, want)
	}
}

func TestRelevantChange(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/ws/Cargo.toml", true},
		{"/ws/front/Cargo.toml", true},
		{"/ws/depcheck.yaml", true},
		{"/ws/.env", true},
		{"/ws/front/src/lib.rs", true},
		{"/ws/front/src/lib.rs~", false},
		{"/ws/README.md", false},
		{"/ws/Cargo.lock", false},
	}
	for _, tt := range tests {
		if got := relevantChange(tt.path, "Cargo.toml"); got != tt.want {
			t.Errorf("relevantChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRunWatch_stopsOnCancel(t *testing.T) {
	wsDir := testutil.ScenarioWorkspace(t)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--root", wsDir, "watch", "--search", "native"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if !strings.Contains(out.String(), "There was 1 conflict") {
		t.Errorf("initial check not printed:\n%s", out.String())
	}
}
