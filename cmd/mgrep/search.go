package main

import (
	"fmt"
	"os"

	"github.com/standardbeagle/mgrep/internal/config"
	"github.com/standardbeagle/mgrep/internal/debug"
	mgreperrors "github.com/standardbeagle/mgrep/internal/errors"
	"github.com/standardbeagle/mgrep/internal/search"
	"github.com/standardbeagle/mgrep/pkg/pathutil"

	"github.com/urfave/cli/v2"
)

// getwd is swapped out in tests
var getwd = os.Getwd

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.IsSet("max-tasks") {
		cfg.Search.MaxTasks = c.Int("max-tasks")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return mgreperrors.NewArgCountError()
	}

	pattern := c.Args().First()
	if err := config.ValidatePattern(pattern); err != nil {
		return err
	}

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	files := c.Args().Tail()
	if len(cfg.Exclude) > 0 {
		cwd, err := getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory for exclude patterns: %w", err)
		}
		var excluded []string
		files, excluded = pathutil.FilterExcluded(files, cwd, cfg.Exclude)
		for _, f := range excluded {
			debug.LogCLI("excluded %s\n", f)
		}
	}

	sink := search.NewOutputSink(c.App.Writer)
	coordinator := search.NewCoordinator(sink,
		search.WithMaxTasks(cfg.Search.MaxTasks),
		search.WithBufferSize(cfg.Search.BufferSize),
	)

	agg, err := coordinator.Search(pattern, files)
	if err != nil {
		return err
	}

	// Per-file failures were already printed and do not change the exit status
	if err := search.Errors(agg); err != nil {
		debug.LogCLI("%d of %d files failed: %v\n", len(agg.Failed()), len(agg.Tasks), err)
	}
	if err := sink.Err(); err != nil {
		debug.LogCLI("output error: %v\n", err)
	}
	return nil
}
