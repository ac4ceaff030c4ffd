package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tomlFile mirrors the KDL layout:
//
//	version = 1
//	exclude = ["**/*.bin"]
//
//	[search]
//	max_tasks = 8
//	buffer_size = "8KB"
type tomlFile struct {
	Version int `toml:"version"`
	Search  struct {
		MaxTasks   *int        `toml:"max_tasks"`
		BufferSize interface{} `toml:"buffer_size"` // integer bytes or size string
	} `toml:"search"`
	Exclude []string `toml:"exclude"`
}

// LoadTOML reads a TOML configuration file
func LoadTOML(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseTOML(content)
}

func parseTOML(content []byte) (*Config, error) {
	var f tomlFile
	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	cfg := Default()
	if f.Version != 0 {
		cfg.Version = f.Version
	}
	if f.Search.MaxTasks != nil {
		cfg.Search.MaxTasks = *f.Search.MaxTasks
	}
	switch v := f.Search.BufferSize.(type) {
	case nil:
	case int64:
		cfg.Search.BufferSize = int(v)
	case string:
		sz, err := parseSize(v)
		if err != nil {
			return nil, fmt.Errorf("invalid buffer_size %q: %w", v, err)
		}
		cfg.Search.BufferSize = int(sz)
	default:
		return nil, fmt.Errorf("invalid buffer_size: expected integer or size string, got %T", v)
	}
	cfg.Exclude = append(cfg.Exclude, f.Exclude...)

	return cfg, nil
}
