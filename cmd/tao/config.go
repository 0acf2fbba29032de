package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const configName = "tao.toml"

// projectConfig is the optional tao.toml found in the working directory or
// one of its parents. Command-line flags override it.
type projectConfig struct {
	Lower lowerConfig `toml:"lower"`
}

type lowerConfig struct {
	Entry          string `toml:"entry"`
	Jobs           int    `toml:"jobs"`
	Cache          bool   `toml:"cache"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// loadConfig returns the nearest tao.toml, or a zero config when there is
// none.
func loadConfig(startDir string) (projectConfig, string, error) {
	path, ok, err := findConfig(startDir)
	if err != nil || !ok {
		return projectConfig{}, "", err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, path, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, path, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Lower.Jobs < 0 {
		return projectConfig{}, path, fmt.Errorf("%s: lower.jobs must not be negative", path)
	}
	return cfg, path, nil
}
