// Package config loads depcheck settings from depcheck.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/fbkclanna/depcheck/internal/manifest"
	"github.com/fbkclanna/depcheck/internal/report"
	"github.com/fbkclanna/depcheck/internal/search"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file at the workspace root.
const FileName = "depcheck.yaml"

// DefaultSourceDir is the source directory searched in each package.
const DefaultSourceDir = "src"

// Environment variables that override file settings.
const (
	EnvThreshold  = "DEPCHECK_THRESHOLD"
	EnvJobs       = "DEPCHECK_JOBS"
	EnvSearch     = "DEPCHECK_SEARCH"
	EnvExitPolicy = "DEPCHECK_EXIT_POLICY"
)

// Config holds the checker settings.
type Config struct {
	Manifest   string   `yaml:"manifest,omitempty"`
	SourceDir  string   `yaml:"source_dir,omitempty"`
	Packages   []string `yaml:"packages,omitempty"`
	Ignore     []string `yaml:"ignore,omitempty"`
	Threshold  *int     `yaml:"threshold,omitempty"`
	Jobs       int      `yaml:"jobs,omitempty"`
	Search     string   `yaml:"search,omitempty"`
	ExitPolicy string   `yaml:"exit_policy,omitempty"`
}

// Default returns the settings used when no file or environment is present.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads root/depcheck.yaml when present, then applies overrides from
// root/.env and the process environment. The process environment wins.
func Load(root string) (*Config, error) {
	c := &Config{}
	data, err := os.ReadFile(filepath.Join(root, FileName)) //nolint:gosec // fixed file name under workspace root
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	env, err := readEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(env); err != nil {
		return nil, err
	}

	c.applyDefaults()
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// readEnv merges the .env file (if any) under the process environment.
func readEnv(path string) (map[string]string, error) {
	env := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		fileEnv, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		env = fileEnv
	}
	for _, k := range []string{EnvThreshold, EnvJobs, EnvSearch, EnvExitPolicy} {
		if v, ok := os.LookupEnv(k); ok {
			env[k] = v
		}
	}
	return env, nil
}

func (c *Config) applyEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvThreshold]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvThreshold, err)
		}
		c.Threshold = &n
	}
	if v := strings.TrimSpace(env[EnvJobs]); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJobs, err)
		}
		c.Jobs = n
	}
	if v := strings.TrimSpace(env[EnvSearch]); v != "" {
		c.Search = v
	}
	if v := strings.TrimSpace(env[EnvExitPolicy]); v != "" {
		c.ExitPolicy = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Manifest == "" {
		c.Manifest = manifest.DefaultFileName
	}
	if c.SourceDir == "" {
		c.SourceDir = DefaultSourceDir
	}
	if c.Threshold == nil {
		n := 1
		c.Threshold = &n
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.NumCPU()
	}
	if c.Search == "" {
		c.Search = string(search.KindAuto)
	}
	if c.ExitPolicy == "" {
		c.ExitPolicy = string(report.PolicyStrict)
	}
}

// EffectiveThreshold returns the global usage threshold.
func (c *Config) EffectiveThreshold() int {
	if c.Threshold != nil {
		return *c.Threshold
	}
	return 1
}

// IgnoreNames returns the ignore list as dependency names.
func (c *Config) IgnoreNames() []manifest.Name {
	names := make([]manifest.Name, len(c.Ignore))
	for i, s := range c.Ignore {
		names[i] = manifest.Name(s)
	}
	return names
}

// Validate checks the configuration for errors.
func Validate(c *Config) error {
	if c.Threshold != nil && *c.Threshold < 0 {
		return fmt.Errorf("config: threshold must be >= 0 (got %d)", *c.Threshold)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("config: jobs must be >= 1 (got %d)", c.Jobs)
	}
	if _, err := search.ParseKind(c.Search); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := report.ParseExitPolicy(c.ExitPolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.ContainsAny(c.Manifest, `/\`) {
		return fmt.Errorf("config: manifest must be a file name, not a path: %s", c.Manifest)
	}
	if err := validatePath(c.SourceDir, "source_dir"); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		if err := validatePath(p, fmt.Sprintf("packages[%d]", i)); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf("config: duplicate package %q", p)
		}
		seen[p] = true
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("config: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("config: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
