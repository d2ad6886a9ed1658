// Package check verifies the dependency invariants of a workspace.
//
// Three checks run in a fixed order. Conflicts compare the specific lists of
// every package against the catalog and against each other. The global
// audit counts how many packages inherit each catalog entry. The usage scan
// searches each package's source tree for every declared dependency. The
// scan fans out over a bounded worker pool, and a single goroutine
// aggregates its results.
package check
