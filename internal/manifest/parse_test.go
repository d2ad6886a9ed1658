package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func parseString(t *testing.T, s string) (*DependencySet, []MalformedLine) {
	t.Helper()
	set, malformed, err := Parse("pkg", strings.NewReader(s), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return set, malformed
}

func TestParse_classification(t *testing.T) {
	set, malformed := parseString(t, `
[package]
name = "back"
version = "0.1.0"

[dependencies]
serde = { version = "1", features = ["derive"] }
tokio.workspace = true
anyhow = { workspace = true }
log = "0.4"
shared = { path = "../shared" }
`)
	if len(malformed) != 0 {
		t.Errorf("malformed = %v, want none", malformed)
	}
	wantSpecific := []Name{"serde", "anyhow", "log"}
	if !reflect.DeepEqual(set.Specific, wantSpecific) {
		t.Errorf("specific = %v, want %v", set.Specific, wantSpecific)
	}
	wantGlobal := []Name{"tokio"}
	if !reflect.DeepEqual(set.Global, wantGlobal) {
		t.Errorf("global = %v, want %v", set.Global, wantGlobal)
	}
	if set.Package != "pkg" {
		t.Errorf("package = %q", set.Package)
	}
}

func TestParse_workspaceMarkerIgnoresWhitespace(t *testing.T) {
	lines := []string{
		"anyhow.workspace = true",
		"anyhow.workspace=true",
		"  anyhow . workspace   =   true  ",
		"anyhow.workspace\t=\ttrue",
		"anyhow.workspace = true # inherited",
	}
	for _, l := range lines {
		t.Run(l, func(t *testing.T) {
			set, _ := parseString(t, "[dependencies]\n"+l+"\n")
			if len(set.Global) != 1 || set.Global[0] != "anyhow" {
				t.Errorf("global = %v, want [anyhow]", set.Global)
			}
			if len(set.Specific) != 0 {
				t.Errorf("specific = %v, want empty", set.Specific)
			}
		})
	}
}

func TestParse_headerSuffixRule(t *testing.T) {
	set, _ := parseString(t, `
[dependencies]
a = "1"

[dev-dependencies]
b = "1"

[build-dependencies]
c.workspace = true

[target.'cfg(unix)'.dependencies]
d = "1"

[features]
default = ["x"]

[workspace.dependencies]
e = "1"
`)
	wantSpecific := []Name{"a", "b", "d", "e"}
	if !reflect.DeepEqual(set.Specific, wantSpecific) {
		t.Errorf("specific = %v, want %v", set.Specific, wantSpecific)
	}
	if !reflect.DeepEqual(set.Global, []Name{"c"}) {
		t.Errorf("global = %v, want [c]", set.Global)
	}
}

func TestParse_nonTableSectionStopsCollection(t *testing.T) {
	set, _ := parseString(t, `
[dependencies]
a = "1"
[package]
b = "1"
[lib]
path = "src/lib.rs"
`)
	if !reflect.DeepEqual(set.Specific, []Name{"a"}) {
		t.Errorf("specific = %v, want [a]", set.Specific)
	}
}

func TestParse_emptyTableAndComments(t *testing.T) {
	set, _ := parseString(t, `
# top comment
[dependencies]
# serde = "1"

[dev-dependencies]
`)
	if len(set.Specific) != 0 || len(set.Global) != 0 {
		t.Errorf("expected no dependencies, got %+v", set)
	}
}

func TestParse_duplicatesPreserved(t *testing.T) {
	set, _ := parseString(t, `
[dependencies]
serde = "1"
[dev-dependencies]
serde = "1"
`)
	if !reflect.DeepEqual(set.Specific, []Name{"serde", "serde"}) {
		t.Errorf("specific = %v, want duplicate serde", set.Specific)
	}
}

func TestParse_dottedSubTable(t *testing.T) {
	set, _ := parseString(t, `
[dependencies]
rocket.version = "0.5"
rocket.features = ["json"]
`)
	if !reflect.DeepEqual(set.Specific, []Name{"rocket", "rocket"}) {
		t.Errorf("specific = %v", set.Specific)
	}
}

func TestParse_sentinelNeverRecorded(t *testing.T) {
	set, _ := parseString(t, `
[dependencies]
shared.workspace = true
shared = { path = "../shared" }
[dev-dependencies]
shared.path = "../shared"
`)
	for _, n := range set.All() {
		if n == SentinelAlias {
			t.Fatalf("sentinel alias recorded: %+v", set)
		}
	}
}

func TestParse_customIgnore(t *testing.T) {
	const src = "[dependencies]\nshared = { path = \"../shared\" }\ninternal = \"1\"\nserde = \"1\"\n"
	tests := []struct {
		name   string
		ignore []Name
		want   []Name
	}{
		{"nil", nil, []Name{"internal", "serde"}},
		{"empty", []Name{}, []Name{"internal", "serde"}},
		{"extra name", []Name{"internal"}, []Name{"serde"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, _, err := Parse("pkg", strings.NewReader(src), Options{Ignore: tt.ignore})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(set.Specific, tt.want) {
				t.Errorf("specific = %v, want %v", set.Specific, tt.want)
			}
		})
	}
}

func TestParse_malformedLines(t *testing.T) {
	set, malformed := parseString(t, `
[dependencies]
= "1"
.workspace = true
tokio = { version = "1", features = [
    "full",
] }
ok = "1"
`)
	if !reflect.DeepEqual(set.Specific, []Name{"tokio", "ok"}) {
		t.Errorf("specific = %v", set.Specific)
	}
	if len(malformed) != 4 {
		t.Fatalf("malformed = %v, want 4 entries", malformed)
	}
	if malformed[0].Line != 3 {
		t.Errorf("first malformed line = %d, want 3", malformed[0].Line)
	}
}

func TestParse_idempotent(t *testing.T) {
	src := "[dependencies]\nserde = \"1\"\ntokio.workspace = true\nserde = \"1\"\n"
	a, _ := parseString(t, src)
	b, _ := parseString(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("parses differ: %+v vs %+v", a, b)
	}
}

func TestLoad_missingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	_, _, err := Load("pkg", path, Options{})
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("error %T is not *ReadError", err)
	}
	if re.Path != path {
		t.Errorf("path = %q, want %q", re.Path, path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected wrapped os.ErrNotExist")
	}
}

func TestLoad_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	if err := os.WriteFile(path, []byte("[dependencies]\nrand = \"0.8\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	set, _, err := Load("front", path, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Package != "front" || len(set.Specific) != 1 || set.Specific[0] != "rand" {
		t.Errorf("unexpected set: %+v", set)
	}
}

func TestName_Normalized(t *testing.T) {
	if got := Name("serde-json").Normalized(); got != "serde_json" {
		t.Errorf("Normalized() = %q", got)
	}
}
