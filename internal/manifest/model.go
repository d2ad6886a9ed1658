package manifest

import "strings"

// Name is a dependency identifier as declared in a manifest (not its alias).
type Name string

// Normalized returns the name as it appears in source code: crate names use
// '_' where the manifest may use '-'.
func (n Name) Normalized() string {
	return strings.ReplaceAll(string(n), "-", "_")
}

// PackageID identifies a workspace member by its path relative to the root.
// The catalog uses CatalogID.
type PackageID string

// CatalogID is the package ID given to the root manifest.
const CatalogID PackageID = "."

// DefaultFileName is the manifest file name looked up in every package.
const DefaultFileName = "Cargo.toml"

// SentinelAlias is skipped in every dependency table. It names the
// workspace-internal crate, not a third-party dependency.
const SentinelAlias Name = "shared"

// DependencySet holds the dependencies declared by one manifest, split by
// how they are declared. Both lists keep file order and duplicates.
type DependencySet struct {
	Package  PackageID `json:"package" yaml:"package"`
	Specific []Name    `json:"specific" yaml:"specific"`
	Global   []Name    `json:"global" yaml:"global"`
}

// All returns the specific dependencies followed by the inherited ones.
func (s *DependencySet) All() []Name {
	all := make([]Name, 0, len(s.Specific)+len(s.Global))
	all = append(all, s.Specific...)
	return append(all, s.Global...)
}

// MalformedLine is a dependency table line that could not be reduced to a name.
type MalformedLine struct {
	Line int
	Text string
}
