package workspace

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fbkclanna/depcheck/internal/config"
	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/sirupsen/logrus"
)

// Context holds the resolved paths and loaded dependency sets of a workspace.
type Context struct {
	Root         string
	ManifestPath string
	Config       *config.Config
	Catalog      *manifest.DependencySet
	Packages     []*manifest.DependencySet
}

// Load resolves the workspace at root and parses the catalog and every
// member manifest. A missing or unreadable manifest aborts the load.
func Load(root string, cfg *config.Config, log *logrus.Logger) (*Context, error) {
	if log == nil {
		log = logrus.New()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}

	ctx := &Context{
		Root:         root,
		ManifestPath: filepath.Join(root, cfg.Manifest),
		Config:       cfg,
	}
	opts := manifest.Options{Ignore: cfg.IgnoreNames()}

	ctx.Catalog, err = loadSet(manifest.CatalogID, ctx.ManifestPath, opts, log)
	if err != nil {
		return nil, err
	}

	members, err := ctx.resolveMembers()
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		set, err := loadSet(manifest.PackageID(m), ctx.PackageManifest(manifest.PackageID(m)), opts, log)
		if err != nil {
			return nil, err
		}
		ctx.Packages = append(ctx.Packages, set)
	}

	log.WithFields(logrus.Fields{
		"root":     root,
		"packages": len(ctx.Packages),
		"catalog":  len(ctx.Catalog.Specific),
	}).Debug("workspace loaded")
	return ctx, nil
}

func loadSet(id manifest.PackageID, path string, opts manifest.Options, log *logrus.Logger) (*manifest.DependencySet, error) {
	set, malformed, err := manifest.Load(id, path, opts)
	if err != nil {
		return nil, err
	}
	for _, m := range malformed {
		log.WithFields(logrus.Fields{
			"manifest": path,
			"line":     m.Line,
		}).Warnf("skipping malformed dependency line: %q", strings.TrimSpace(m.Text))
	}
	return set, nil
}

// resolveMembers returns the configured packages, or the [workspace] members
// of the root manifest with glob patterns expanded and exclude applied.
func (c *Context) resolveMembers() ([]string, error) {
	if len(c.Config.Packages) > 0 {
		return c.Config.Packages, nil
	}

	ms, err := manifest.LoadMembers(c.ManifestPath)
	if err != nil {
		return nil, err
	}

	var members []string
	seen := make(map[string]bool)
	for _, e := range ms.Include {
		expanded, err := c.expand(e)
		if err != nil {
			return nil, err
		}
		for _, m := range expanded {
			if seen[m] || excluded(m, ms.Exclude) {
				continue
			}
			seen[m] = true
			members = append(members, m)
		}
	}
	return members, nil
}

// excluded reports whether member equals, lies below or matches one of the
// exclude patterns.
func excluded(member string, patterns []string) bool {
	for _, p := range patterns {
		p = filepath.ToSlash(filepath.Clean(p))
		if member == p || strings.HasPrefix(member, p+"/") {
			return true
		}
		if ok, _ := path.Match(p, member); ok {
			return true
		}
	}
	return false
}

// expand resolves a glob member pattern to the matching directories that
// contain a manifest. Plain entries are returned unchanged.
func (c *Context) expand(entry string) ([]string, error) {
	entry = filepath.ToSlash(filepath.Clean(entry))
	if !strings.ContainsAny(entry, "*?[") {
		return []string{entry}, nil
	}
	matches, err := filepath.Glob(filepath.Join(c.Root, filepath.FromSlash(entry)))
	if err != nil {
		return nil, fmt.Errorf("expanding workspace member %q: %w", entry, err)
	}
	var out []string
	for _, m := range matches {
		if _, err := os.Stat(filepath.Join(m, c.Config.Manifest)); err != nil {
			continue
		}
		rel, err := filepath.Rel(c.Root, m)
		if err != nil {
			return nil, err
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}

// PackageDir returns the absolute directory of a package.
func (c *Context) PackageDir(id manifest.PackageID) string {
	return filepath.Join(c.Root, filepath.FromSlash(string(id)))
}

// PackageManifest returns the absolute manifest path of a package.
func (c *Context) PackageManifest(id manifest.PackageID) string {
	return filepath.Join(c.PackageDir(id), c.Config.Manifest)
}

// SourceDir returns the absolute source directory of a package.
func (c *Context) SourceDir(id manifest.PackageID) string {
	return filepath.Join(c.PackageDir(id), c.Config.SourceDir)
}

// AllGlobal returns the concatenation of every package's inherited list.
func (c *Context) AllGlobal() []manifest.Name {
	var all []manifest.Name
	for _, p := range c.Packages {
		all = append(all, p.Global...)
	}
	return all
}

// FilterPackages returns the packages matching --only / --skip flags.
func (c *Context) FilterPackages(only, skip []string) []*manifest.DependencySet {
	if len(only) == 0 && len(skip) == 0 {
		return c.Packages
	}
	onlySet := toSet(only)
	skipSet := toSet(skip)

	var result []*manifest.DependencySet
	for _, p := range c.Packages {
		id := string(p.Package)
		if len(onlySet) > 0 && !onlySet[id] {
			continue
		}
		if skipSet[id] {
			continue
		}
		result = append(result, p)
	}
	return result
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
