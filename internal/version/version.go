package version

import (
	"runtime/debug"
	"sync"
)

// Version is the current semantic version of mgrep
const Version = "0.1.0"

// BuildDate is stamped at build time:
//
//	go build -ldflags "-X github.com/standardbeagle/mgrep/internal/version.BuildDate=$(date -u +%F)"
var BuildDate = "development"

// Info returns version information as a string
func Info() string {
	return Version
}

// FullInfo returns detailed version information
func FullInfo() string {
	return "mgrep " + Version + " (commit: " + Revision() + ", built: " + BuildDate + ")"
}

var (
	revision     string
	revisionOnce sync.Once
)

// Revision returns the VCS revision embedded by the Go toolchain, shortened
// to 12 characters, or "unknown" for builds without VCS stamping.
func Revision() string {
	revisionOnce.Do(func() {
		revision = "unknown"
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
				if len(revision) > 12 {
					revision = revision[:12]
				}
			}
		}
	})
	return revision
}
