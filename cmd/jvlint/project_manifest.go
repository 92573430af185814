package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Lint  lintConfig  `toml:"lint"`
	Rules rulesConfig `toml:"rules"`
}

type lintConfig struct {
	Jobs           int    `toml:"jobs"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
	Format         string `toml:"format"`
}

type rulesConfig struct {
	Disabled []string `toml:"disabled"`
}

// findJvlintToml walks from startDir up to the filesystem root looking for
// a jvlint.toml manifest.
func findJvlintToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "jvlint.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findJvlintToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Lint.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: lint.jobs must be non-negative", path)
	}
	if cfg.Lint.MaxDiagnostics < 0 {
		return projectConfig{}, fmt.Errorf("%s: lint.max_diagnostics must be non-negative", path)
	}
	switch cfg.Lint.Format {
	case "", "pretty", "json", "sarif":
	default:
		return projectConfig{}, fmt.Errorf("%s: unsupported lint.format %q", path, cfg.Lint.Format)
	}
	return cfg, nil
}
