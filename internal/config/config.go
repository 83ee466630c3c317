// Package config loads optional CLI defaults from HCL files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// FileName is the config file looked up in the working directory.
const FileName = "expocli.hcl"

// Config carries optional defaults for the CLI. Zero values mean unset;
// callers fall back to their own defaults.
type Config struct {
	// Workers caps the worker pool for threaded runs.
	Workers int `hcl:"workers,optional"`
	// ParallelThreshold is the file count at which runs go threaded.
	ParallelThreshold int `hcl:"parallel_threshold,optional"`
	// Format is the default output format name.
	Format string `hcl:"format,optional"`
	// LogLevel is the default log level name.
	LogLevel string `hcl:"log_level,optional"`
	// Progress enables progress reporting by default.
	Progress bool `hcl:"progress,optional"`
}

// Load decodes the file at path.
func Load(path string) (Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for a config file: FileName in the working directory,
// then ~/.expocli/config.hcl. A missing file is not an error; a file that
// exists but fails to decode is.
func Discover() (Config, string, error) {
	candidates := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".expocli", "config.hcl"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := Load(p)
		if err != nil {
			return Config{}, p, err
		}
		return cfg, p, nil
	}
	return Config{}, "", nil
}
