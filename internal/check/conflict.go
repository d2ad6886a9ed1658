package check

import (
	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/report"
)

// CheckConflict returns one record per entry of a whose name also occurs
// anywhere in b. Duplicates in a each produce a record.
func CheckConflict(label string, a, b []manifest.Name) []report.ConflictRecord {
	var records []report.ConflictRecord
	for _, name := range a {
		for _, other := range b {
			if name == other {
				records = append(records, report.ConflictRecord{Label: label, Dependency: name})
				break
			}
		}
	}
	return records
}

// Pair is one conflict comparison between two specific lists.
type Pair struct {
	Label string
	A, B  []manifest.Name
}

// ConflictPairs lists every package against the catalog, then every pair of
// packages in workspace order. Package pairs are labelled "<first>-<second>".
func ConflictPairs(catalog *manifest.DependencySet, packages []*manifest.DependencySet) []Pair {
	pairs := make([]Pair, 0, len(packages)+len(packages)*(len(packages)-1)/2)
	for _, p := range packages {
		pairs = append(pairs, Pair{Label: string(p.Package), A: p.Specific, B: catalog.Specific})
	}
	for i, p := range packages {
		for _, q := range packages[i+1:] {
			pairs = append(pairs, Pair{
				Label: string(p.Package) + "-" + string(q.Package),
				A:     p.Specific,
				B:     q.Specific,
			})
		}
	}
	return pairs
}

// CheckConflicts runs CheckConflict over pairs in order.
func CheckConflicts(pairs []Pair) []report.ConflictRecord {
	var records []report.ConflictRecord
	for _, p := range pairs {
		records = append(records, CheckConflict(p.Label, p.A, p.B)...)
	}
	return records
}
