package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fbkclanna/depcheck/internal/check"
	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/workspace"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the check whenever a manifest or source file changes",
		RunE:  runWatch,
	}
	addCheckFlags(cmd)
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "Quiet period before re-running after a change")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")
	root, _ := cmd.Flags().GetString("root")
	ctx := cmd.Context()
	log := newLogger(cmd)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	watch := func(dirs []string) {
		for _, d := range dirs {
			if watched[d] {
				continue
			}
			if err := watcher.Add(d); err != nil {
				log.WithError(err).WithField("dir", d).Warn("cannot watch directory")
				continue
			}
			watched[d] = true
		}
	}

	// The root is always watched so a broken manifest can be fixed in place.
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	watch([]string{absRoot})

	manifestName := manifest.DefaultFileName
	rerun := func() {
		ws, r, policy, err := executeCheck(cmd, log)
		if ws != nil {
			manifestName = ws.Config.Manifest
			watch(watchDirs(ws))
		}
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Error("check failed")
			}
			return
		}
		if err := writeReport(cmd.OutOrStdout(), r, false); err != nil {
			log.WithError(err).Error("writing report")
			return
		}
		if err := findingsError(r, policy); errors.Is(err, check.ErrFindings) {
			log.Warn(err.Error())
		}
	}

	rerun()
	log.WithField("dirs", len(watched)).Info("watching for changes")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !skipDir(fi.Name()) {
					log.WithField("dir", event.Name).Debug("new directory")
					watch([]string{event.Name})
				}
			}
			if !relevantChange(event.Name, manifestName) {
				continue
			}
			log.WithField("file", event.Name).Debug("change detected")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Info("re-running check")
			rerun()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

// watchDirs returns the workspace root, every package directory and every
// directory below each package's source directory, sorted.
func watchDirs(ws *workspace.Context) []string {
	set := map[string]bool{ws.Root: true}
	for _, p := range ws.Packages {
		set[ws.PackageDir(p.Package)] = true
		_ = filepath.WalkDir(ws.SourceDir(p.Package), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // a missing source directory is not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != ws.SourceDir(p.Package) && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			set[path] = true
			return nil
		})
	}
	dirs := make([]string, 0, len(set))
	for d := range set {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "target"
}

// relevantChange reports whether a changed file can alter the check result.
func relevantChange(path, manifestName string) bool {
	switch filepath.Base(path) {
	case manifestName, config.FileName, ".env":
		return true
	}
	return filepath.Ext(path) == ".rs"
}
