package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/report"
	"github.com/fbkclanna/depcheck/internal/search"
	"github.com/fbkclanna/depcheck/internal/workspace"
	"github.com/sirupsen/logrus"
)

// ErrFindings is returned by callers that fail a run with findings.
var ErrFindings = errors.New("dependency check failed")

// ReportVersion is the schema version of generated reports.
const ReportVersion = 1

// Options configures a check run.
type Options struct {
	Searcher  search.Searcher
	Threshold int
	Jobs      int
	// Only and Skip restrict the usage scan to some packages. Conflict and
	// global checks always cover the whole workspace.
	Only, Skip  []string
	Log         *logrus.Logger
	OnResult    func(UsageResult)
	ToolVersion string
	Now         func() time.Time
}

// Run checks a loaded workspace: conflicts, global usage, then the
// concurrent source scan. Findings go into the report, never into the error.
// A cancelled ctx yields no report.
func Run(ctx context.Context, ws *workspace.Context, opts Options) (*report.Report, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	searcher := opts.Searcher
	if searcher == nil {
		var err error
		if searcher, err = search.New(search.KindAuto); err != nil {
			return nil, err
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := &report.Report{
		Version:     ReportVersion,
		GeneratedAt: now().Format(time.RFC3339),
		ToolVersion: opts.ToolVersion,
		Threshold:   opts.Threshold,
	}
	for _, p := range ws.Packages {
		r.Packages = append(r.Packages, p.Package)
	}

	r.Conflicts = CheckConflicts(ConflictPairs(ws.Catalog, ws.Packages))
	r.TotalConflicts = len(r.Conflicts)
	log.WithField("conflicts", r.TotalConflicts).Debug("conflict check finished")

	r.UnusedGlobals = AuditGlobalUsage(ws.Catalog.Specific, ws.AllGlobal(), opts.Threshold)
	log.WithField("unused_globals", len(r.UnusedGlobals)).Debug("global usage audit finished")

	scanner := NewScanner(searcher, opts.Jobs, log)
	scanner.OnResult = opts.OnResult
	r.UnusedDependencies = scanner.Scan(ctx, Targets(ws, ws.FilterPackages(opts.Only, opts.Skip)))

	// Lookups cut short by cancellation read as unused.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("usage scan interrupted: %w", err)
	}
	return r, nil
}

// Targets builds one scan target per package with its specific and
// inherited dependencies.
func Targets(ws *workspace.Context, packages []*manifest.DependencySet) []Target {
	targets := make([]Target, 0, len(packages))
	for _, p := range packages {
		targets = append(targets, Target{
			Package:      p.Package,
			SourceDir:    ws.SourceDir(p.Package),
			Dependencies: p.All(),
		})
	}
	return targets
}
