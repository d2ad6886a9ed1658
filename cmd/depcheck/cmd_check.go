package main

import (
	"fmt"
	"io"

	"github.com/fbkclanna/depcheck/internal/check"
	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/report"
	"github.com/fbkclanna/depcheck/internal/search"
	"github.com/fbkclanna/depcheck/internal/ui"
	"github.com/fbkclanna/depcheck/internal/workspace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report conflicting, unused global and unused dependencies",
		RunE:  runCheck,
	}
	addCheckFlags(cmd)
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().String("report", "", "Also write the report as YAML to this file")
	return cmd
}

// addCheckFlags registers the flags shared by check and watch.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "Number of parallel source searches (default: config or CPU count)")
	cmd.Flags().Int("threshold", check.DefaultThreshold, "Minimum number of packages that must inherit each global dependency")
	cmd.Flags().String("search", "", "Search backend: auto, rg, native (default: config or auto)")
	cmd.Flags().String("exit-policy", "", "Exit behaviour on findings: strict, report (default: config or strict)")
	cmd.Flags().StringSlice("only", nil, "Scan only these packages for unused dependencies")
	cmd.Flags().StringSlice("skip", nil, "Skip these packages when scanning for unused dependencies")
	cmd.Flags().Bool("progress", false, "Print scan progress to stderr")
}

// applyCheckFlags overrides configuration values with explicitly set flags.
func applyCheckFlags(cmd *cobra.Command) func(*config.Config) error {
	return func(cfg *config.Config) error {
		flags := cmd.Flags()
		if flags.Changed("jobs") {
			jobs, _ := flags.GetInt("jobs")
			if jobs < 1 {
				return fmt.Errorf("--jobs must be >= 1 (got %d)", jobs)
			}
			cfg.Jobs = jobs
		}
		if flags.Changed("threshold") {
			threshold, _ := flags.GetInt("threshold")
			cfg.Threshold = &threshold
		}
		if flags.Changed("search") {
			cfg.Search, _ = flags.GetString("search")
		}
		if flags.Changed("exit-policy") {
			cfg.ExitPolicy, _ = flags.GetString("exit-policy")
		}
		return nil
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	reportPath, _ := cmd.Flags().GetString("report")

	log := newLogger(cmd)
	_, r, policy, err := executeCheck(cmd, log)
	if err != nil {
		return err
	}
	if err := writeReport(cmd.OutOrStdout(), r, asJSON); err != nil {
		return err
	}

	if reportPath != "" {
		if err := report.Save(reportPath, r); err != nil {
			return err
		}
		log.WithField("path", reportPath).Info("report written")
	}

	return findingsError(r, policy)
}

func writeReport(out io.Writer, r *report.Report, asJSON bool) error {
	if asJSON {
		return report.WriteJSON(out, r)
	}
	return report.WriteText(out, r, ui.NewStyles(out))
}

// executeCheck loads the workspace and runs every check once.
func executeCheck(cmd *cobra.Command, log *logrus.Logger) (*workspace.Context, *report.Report, report.ExitPolicy, error) {
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	showProgress, _ := cmd.Flags().GetBool("progress")

	ws, err := loadWorkspace(cmd, log, applyCheckFlags(cmd))
	if err != nil {
		return nil, nil, "", err
	}
	cfg := ws.Config

	kind, err := search.ParseKind(cfg.Search)
	if err != nil {
		return ws, nil, "", err
	}
	searcher, err := search.New(kind)
	if err != nil {
		return ws, nil, "", err
	}
	policy, err := report.ParseExitPolicy(cfg.ExitPolicy)
	if err != nil {
		return ws, nil, "", err
	}

	var progress *ui.Progress
	total := 0
	if showProgress {
		scanned := ws.FilterPackages(only, skip)
		total = check.LookupCount(check.Targets(ws, scanned))
		progress = ui.NewProgress(cmd.ErrOrStderr(), total)
		progress.Log("Scanning %d dependencies in %d packages", total, len(scanned))
	}

	log.WithFields(logrus.Fields{
		"search":    fmt.Sprintf("%T", searcher),
		"jobs":      cfg.Jobs,
		"threshold": cfg.EffectiveThreshold(),
	}).Debug("starting check")

	r, err := check.Run(cmd.Context(), ws, check.Options{
		Searcher:    searcher,
		Threshold:   cfg.EffectiveThreshold(),
		Jobs:        cfg.Jobs,
		Only:        only,
		Skip:        skip,
		Log:         log,
		OnResult:    progressCallback(progress),
		ToolVersion: version,
	})
	if err != nil {
		return ws, nil, "", err
	}
	if progress != nil {
		progress.Log("Finished %d/%d lookups", progress.Completed(), total)
	}
	return ws, r, policy, nil
}

func progressCallback(p *ui.Progress) func(check.UsageResult) {
	if p == nil {
		return nil
	}
	return func(res check.UsageResult) {
		p.Done(fmt.Sprintf("%s: %s", res.Package, res.Dependency), res.Used)
	}
}

// findingsError returns check.ErrFindings when the policy fails the run.
func findingsError(r *report.Report, policy report.ExitPolicy) error {
	if !r.Failed(policy) {
		return nil
	}
	return fmt.Errorf("%w: %d %s, %d unused %s", check.ErrFindings,
		r.TotalConflicts, pluralize(r.TotalConflicts, "conflict", "conflicts"),
		len(r.UnusedDependencies), pluralize(len(r.UnusedDependencies), "dependency", "dependencies"))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
