package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CatalogManifest is a root manifest with front and back members and a
// workspace catalog of serde and tokio.
const CatalogManifest = `[workspace]
members = ["front", "back"]

[workspace.dependencies]
serde = { version = "1", features = ["derive"] }
tokio = { version = "1", features = ["full"] }
`

// WriteWorkspace creates a workspace in a temp directory from a map of
// slash-separated relative paths to file contents. Returns the root path.
func WriteWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteFile writes content to root/name, creating parent directories.
func WriteFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test directory
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ScenarioWorkspace builds the two-package workspace used across tests:
// front declares serde specifically (a conflict with the catalog) and
// inherits tokio; back inherits nothing and declares anyhow, which its
// source never references.
func ScenarioWorkspace(t *testing.T) string {
	t.Helper()
	return WriteWorkspace(t, map[string]string{
		"Cargo.toml": CatalogManifest,
		"front/Cargo.toml": `[package]
name = "front"

[dependencies]
serde = "1"
tokio.workspace = true
shared = { path = "../shared" }
`,
		"front/src/main.rs": "use serde::Serialize;\n\n#[tokio::main]\nasync fn main() {}\n",
		"back/Cargo.toml": `[package]
name = "back"

[dependencies]
anyhow = "1"
`,
		"back/src/main.rs": "fn main() {\n    println!(\"hello\");\n}\n",
	})
}
