// Package config loads the daemon's optional configuration file. Absence is
// normal — every field has a hard-coded default and the daemon runs
// correctly with no config file at all. Discovery globs for the file by
// name pattern rather than requiring one fixed path.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config holds daemon-wide settings. Every field has a default applied by
// Load when the key is absent or the file doesn't exist.
type Config struct {
	// Python is the interpreter executable used to spawn the hook worker.
	Python string `yaml:"python"`

	// Transcript, if true, enables the MessagePack session transcript
	// (internal/telemetry) under the capture root (CaptureDir, or the temp
	// root chosen when CaptureDir is empty).
	Transcript bool `yaml:"transcript"`

	// CaptureDir overrides the per-process capture-file root; empty means
	// "let capture.NewManager pick a temp directory".
	CaptureDir string `yaml:"capture_dir"`
}

// Default returns the configuration the daemon runs with when no config
// file is found.
func Default() Config {
	return Config{Python: "python3"}
}

// discoveryPatterns are tried, in order, relative to the tree root; the
// first match wins. Glob patterns (not a single fixed name) let a tree keep
// its daemon config under any file name directly inside a conventional
// subdirectory; nested subdirectories are not searched.
var discoveryPatterns = []string{
	"hookd.yaml",
	".hookd/*.yaml",
	".hookd/*.yml",
}

// Discover finds the daemon's config file under root, if any, returning ""
// if none of the discovery patterns match.
func Discover(root string) (string, error) {
	for _, pattern := range discoveryPatterns {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			return "", fmt.Errorf("config: glob %q: %w", pattern, err)
		}
		if len(matches) > 0 {
			return filepath.Join(root, matches[0]), nil
		}
	}
	return "", nil
}

// Load reads and parses the config file at path, overlaying it onto
// Default(). An empty path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Python == "" {
		cfg.Python = "python3"
	}
	return cfg, nil
}
