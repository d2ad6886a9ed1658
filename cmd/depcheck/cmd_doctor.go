package main

import (
	"fmt"
	"os"

	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/search"
	"github.com/fbkclanna/depcheck/internal/workspace"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment and workspace layout",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	root, _ := cmd.Flags().GetString("root")
	ok := true

	// Check the search backend.
	_, _ = fmt.Fprint(out, "Checking ripgrep... ")
	if search.IsRipgrepInstalled() {
		ver, err := (&search.Ripgrep{}).Version(cmd.Context())
		if err != nil {
			_, _ = fmt.Fprintln(out, "ERROR")
			_, _ = fmt.Fprintf(out, "  %v\n", err)
			ok = false
		} else {
			_, _ = fmt.Fprintln(out, ver)
		}
	} else {
		_, _ = fmt.Fprintln(out, "not found (the native search will be used)")
	}

	// Check configuration.
	_, _ = fmt.Fprint(out, "Checking configuration... ")
	cfg, err := config.Load(root)
	if err != nil {
		_, _ = fmt.Fprintln(out, "FAILED")
		_, _ = fmt.Fprintf(out, "  %v\n", err)
		_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
		return fmt.Errorf("doctor checks failed")
	}
	_, _ = fmt.Fprintf(out, "OK (search=%s, jobs=%d, threshold=%d, exit_policy=%s)\n",
		cfg.Search, cfg.Jobs, cfg.EffectiveThreshold(), cfg.ExitPolicy)

	// Check manifests.
	_, _ = fmt.Fprint(out, "Checking manifests... ")
	ws, err := workspace.Load(root, cfg, newLogger(cmd))
	if err != nil {
		_, _ = fmt.Fprintln(out, "FAILED")
		_, _ = fmt.Fprintf(out, "  %v\n", err)
		ok = false
	} else {
		_, _ = fmt.Fprintf(out, "OK (%d packages)\n", len(ws.Packages))
		if !checkSourceDirs(cmd, ws) {
			ok = false
		}
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// checkSourceDirs reports whether every package has a source directory.
// A missing directory makes every dependency of the package look unused.
func checkSourceDirs(cmd *cobra.Command, ws *workspace.Context) bool {
	out := cmd.OutOrStdout()
	ok := true
	for _, p := range ws.Packages {
		dir := ws.SourceDir(p.Package)
		_, _ = fmt.Fprintf(out, "  Checking %s (%s)... ", p.Package, dir)
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			_, _ = fmt.Fprintln(out, "MISSING")
			ok = false
		case !info.IsDir():
			_, _ = fmt.Fprintln(out, "NOT A DIRECTORY")
			ok = false
		default:
			_, _ = fmt.Fprintln(out, "OK")
		}
	}
	return ok
}
