package report

import "github.com/fbkclanna/depcheck/internal/manifest"

// Report is the aggregated result of one check run.
type Report struct {
	Version            int                      `json:"version" yaml:"version"`
	GeneratedAt        string                   `json:"generated_at" yaml:"generated_at"`
	ToolVersion        string                   `json:"tool_version" yaml:"tool_version"`
	Packages           []manifest.PackageID     `json:"packages" yaml:"packages"`
	Conflicts          []ConflictRecord         `json:"conflicts" yaml:"conflicts"`
	TotalConflicts     int                      `json:"total_conflicts" yaml:"total_conflicts"`
	Threshold          int                      `json:"threshold" yaml:"threshold"`
	UnusedGlobals      []UnusedGlobalRecord     `json:"unused_globals" yaml:"unused_globals"`
	UnusedDependencies []UnusedDependencyRecord `json:"unused_dependencies" yaml:"unused_dependencies"`
}

// ConflictRecord is a specific dependency declared again in the list
// named by Label.
type ConflictRecord struct {
	Label      string        `json:"label" yaml:"label"`
	Dependency manifest.Name `json:"dependency" yaml:"dependency"`
}

// UnusedGlobalRecord is a catalog entry inherited by fewer packages than
// the threshold.
type UnusedGlobalRecord struct {
	Dependency manifest.Name `json:"dependency" yaml:"dependency"`
	References int           `json:"references" yaml:"references"`
}

// UnusedDependencyRecord is a declared dependency never referenced in the
// package's source tree.
type UnusedDependencyRecord struct {
	Package    manifest.PackageID `json:"package" yaml:"package"`
	Dependency manifest.Name      `json:"dependency" yaml:"dependency"`
}

// HasFindings reports whether the run found conflicts or unused
// dependencies. Unused globals are informational.
func (r *Report) HasFindings() bool {
	return r.TotalConflicts > 0 || len(r.UnusedDependencies) > 0
}
