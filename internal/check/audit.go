package check

import (
	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/report"
)

// DefaultThreshold is the minimum number of inheriting packages a catalog
// entry needs.
const DefaultThreshold = 1

// AuditGlobalUsage flags catalog entries whose occurrence count across the
// packages' inherited lists is below threshold.
func AuditGlobalUsage(catalog, inherited []manifest.Name, threshold int) []report.UnusedGlobalRecord {
	counts := make(map[manifest.Name]int, len(inherited))
	for _, n := range inherited {
		counts[n]++
	}

	var records []report.UnusedGlobalRecord
	for _, n := range catalog {
		if c := counts[n]; c < threshold {
			records = append(records, report.UnusedGlobalRecord{Dependency: n, References: c})
		}
	}
	return records
}
