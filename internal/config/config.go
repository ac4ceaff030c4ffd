package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/mgrep/internal/debug"
	"github.com/standardbeagle/mgrep/internal/types"
)

// DefaultConfigFile is looked up in the working directory and in $HOME
const DefaultConfigFile = ".mgrep.kdl"

type Config struct {
	Version int
	Search  Search
	Exclude []string // doublestar globs; matching files are skipped before scanning
	Source  string   // file the config was read from, empty for built-in defaults
}

type Search struct {
	MaxTasks   int // cap on concurrently running scan tasks, 0 = no cap; extra files wait
	BufferSize int // per-task read buffer in bytes
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Version: 1,
		Search: Search{
			MaxTasks:   0,
			BufferSize: types.DefaultReadBufferSize,
		},
		Exclude: []string{},
	}
}

// Load reads the configuration at path. The default file name may be
// absent, in which case a global ~/.mgrep.kdl or the built-in defaults are
// used; any other path must exist. A global config and a project config
// are merged with the project taking precedence.
func Load(path string) (*Config, error) {
	explicit := path != "" && path != DefaultConfigFile
	if path == "" {
		path = DefaultConfigFile
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(homeDir, DefaultConfigFile)
		if !samePath(globalPath, path) {
			if cfg, err := loadIfExists(globalPath); err == nil && cfg != nil {
				baseConfig = cfg
			} else if err != nil {
				debug.LogConfig("ignoring global config %s: %v\n", globalPath, err)
			}
		}
	}

	projectConfig, err := loadIfExists(path)
	if err != nil {
		return nil, err
	}
	if projectConfig == nil && explicit {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return mergeConfigs(baseConfig, projectConfig), nil
	case projectConfig != nil:
		return projectConfig, nil
	case baseConfig != nil:
		return baseConfig, nil
	}

	debug.LogConfig("no config file found, using defaults\n")
	return Default(), nil
}

// loadIfExists returns nil, nil when path does not exist
func loadIfExists(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kdl":
		cfg, err = LoadKDL(path)
	case ".toml":
		cfg, err = LoadTOML(path)
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .kdl or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	debug.LogConfig("loaded %s\n", path)
	return cfg, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// mergeConfigs merges a base config with a project config
// Project config takes precedence, but base exclusions are preserved
func mergeConfigs(base, project *Config) *Config {
	merged := *project
	merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))
	return &merged
}

// DeduplicatePatterns removes repeated patterns, keeping first occurrence order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
