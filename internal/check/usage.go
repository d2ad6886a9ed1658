package check

import (
	"context"
	"regexp"
	"time"

	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/report"
	"github.com/fbkclanna/depcheck/internal/search"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// UsagePattern returns the regular expression matching a path-qualified
// use, a use statement or an extern crate declaration of name.
func UsagePattern(name manifest.Name) string {
	n := regexp.QuoteMeta(name.Normalized())
	return n + "::|use " + n + "|extern crate " + n
}

// Target is a package whose declared dependencies must be found in SourceDir.
type Target struct {
	Package      manifest.PackageID
	SourceDir    string
	Dependencies []manifest.Name
}

// UsageResult is the outcome of one usage lookup.
type UsageResult struct {
	Package    manifest.PackageID
	Dependency manifest.Name
	Used       bool
	Err        error

	index int
}

// Scanner looks up dependency usage with a bounded pool of workers.
type Scanner struct {
	searcher search.Searcher
	jobs     int
	log      *logrus.Logger

	// OnResult, when set, is called from the aggregating goroutine for
	// every finished lookup.
	OnResult func(UsageResult)
}

// NewScanner creates a scanner running at most jobs lookups at once.
func NewScanner(s search.Searcher, jobs int, log *logrus.Logger) *Scanner {
	if log == nil {
		log = logrus.New()
	}
	if jobs < 1 {
		jobs = 1
	}
	return &Scanner{searcher: s, jobs: jobs, log: log}
}

// IsUsed reports whether name is referenced under dir. A failed search is
// logged and reported as unused. Failures caused by ctx ending are not logged.
func (s *Scanner) IsUsed(ctx context.Context, name manifest.Name, dir string) bool {
	used, err := s.lookup(ctx, name, dir)
	if err != nil && ctx.Err() == nil {
		s.logFailure("", name, err)
	}
	return used
}

func (s *Scanner) lookup(ctx context.Context, name manifest.Name, dir string) (bool, error) {
	lines, err := s.searcher.Search(ctx, UsagePattern(name), dir)
	if err != nil {
		return false, err
	}
	return len(lines) > 0, nil
}

func (s *Scanner) logFailure(pkg manifest.PackageID, name manifest.Name, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"package":    pkg,
		"dependency": name,
	}).Warn("search failed, treating dependency as unused")
}

type scanTask struct {
	pkg  manifest.PackageID
	name manifest.Name
	dir  string
}

// tasks returns one task per distinct dependency of each target, in
// target then declaration order.
func tasks(targets []Target) []scanTask {
	var out []scanTask
	for _, t := range targets {
		seen := make(map[manifest.Name]bool, len(t.Dependencies))
		for _, n := range t.Dependencies {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, scanTask{pkg: t.Package, name: n, dir: t.SourceDir})
		}
	}
	return out
}

// LookupCount returns how many lookups Scan performs for targets.
func LookupCount(targets []Target) int {
	return len(tasks(targets))
}

// Scan looks up every distinct (package, dependency) pair and returns the
// unused ones in target order. It returns once every lookup has finished.
func (s *Scanner) Scan(ctx context.Context, targets []Target) []report.UnusedDependencyRecord {
	work := tasks(targets)
	start := time.Now()

	results := make(chan UsageResult)
	collected := make(chan []UsageResult)
	go func() {
		all := make([]UsageResult, len(work))
		for r := range results {
			all[r.index] = r
			if s.OnResult != nil {
				s.OnResult(r)
			}
		}
		collected <- all
	}()

	var g errgroup.Group
	g.SetLimit(s.jobs)
	for i, t := range work {
		g.Go(func() error {
			used, err := s.lookup(ctx, t.name, t.dir)
			if err != nil && ctx.Err() == nil {
				s.logFailure(t.pkg, t.name, err)
			}
			results <- UsageResult{Package: t.pkg, Dependency: t.name, Used: used, Err: err, index: i}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	all := <-collected

	var unused []report.UnusedDependencyRecord
	for _, r := range all {
		if !r.Used {
			unused = append(unused, report.UnusedDependencyRecord{Package: r.Package, Dependency: r.Dependency})
		}
	}

	s.log.WithFields(logrus.Fields{
		"lookups": len(work),
		"unused":  len(unused),
		"jobs":    s.jobs,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("usage scan finished")
	return unused
}
