package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/standardbeagle/mgrep/internal/debug"
	mgreperrors "github.com/standardbeagle/mgrep/internal/errors"
	"github.com/standardbeagle/mgrep/internal/version"

	"github.com/urfave/cli/v2"
)

const usageLine = "Usage: mgrep [options] PATTERN FILE [FILE...]"

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "mgrep",
		Usage:                  "Search files for a literal string, one worker per file",
		UsageText:              "mgrep [options] PATTERN FILE [FILE...]",
		Version:                version.Version,
		UseShortOptionHandling: true,
		HideHelpCommand:        true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.kdl or .toml)",
				Value:   ".mgrep.kdl",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"x"},
				Usage:   "Skip files matching glob patterns (e.g., --exclude '**/*.bin')",
			},
			&cli.IntFlag{
				Name:  "max-tasks",
				Usage: "Maximum number of file tasks running at once; extra files wait, 0 = unlimited (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Show debug information on stderr",
			},
			&cli.BoolFlag{
				Name:   "debug-log",
				Usage:  "Write debug information to a temporary log file (hidden flag)",
				Hidden: true,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				debug.SetVerbose(true)
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			if c.Bool("debug-log") {
				debug.SetVerbose(true)
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			}
			debug.LogCLI("%s (%d args)\n", version.FullInfo(), c.NArg())
			return nil
		},
		After: func(c *cli.Context) error {
			err := debug.CloseDebugLog()
			debug.SetDebugOutput(nil)
			debug.SetVerbose(false)
			return err
		},
		Action: searchCommand,
	}
}

// run executes the application and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(args); err != nil {
		reportError(stderr, err)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error) {
	var ue *mgreperrors.UsageError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "Error: %s\n%s\n", ue.Reason, usageLine)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}
