// Package report holds the findings of a dependency check run and writes
// them as console text, JSON or a YAML report file. Report files let CI
// jobs archive and diff the result of each run.
package report
