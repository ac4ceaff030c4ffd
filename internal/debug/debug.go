// Package debug writes diagnostic lines for mgrep runs. Nothing is written
// unless debugging is switched on (--verbose, the DEBUG environment variable
// or the EnableDebug build flag) and an output has been attached.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/mgrep/internal/types"
)

// EnableDebug can be flipped at build time:
//
//	go build -ldflags "-X github.com/standardbeagle/mgrep/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// LogDirName is the directory under os.TempDir that holds --debug-log files
const LogDirName = "mgrep-debug-logs"

type logger struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File // non-nil when out is a log file we own
}

var (
	std     logger
	verbose atomic.Bool
)

// SetVerbose forces debug output on or off independently of the environment
func SetVerbose(on bool) {
	verbose.Store(on)
}

// SetDebugOutput attaches w as the destination; nil silences output.
// A log file opened by InitDebugLogFile is not closed by this call.
func SetDebugOutput(w io.Writer) {
	std.mu.Lock()
	std.out = w
	std.mu.Unlock()
}

// InitDebugLogFile opens a fresh timestamped log file and routes output to it
func InitDebugLogFile() (string, error) {
	dir := filepath.Join(os.TempDir(), LogDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	name := fmt.Sprintf("mgrep-%s-%d.log", time.Now().Format("20060102-150405.000000"), os.Getpid())
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	std.mu.Lock()
	defer std.mu.Unlock()
	if std.file != nil {
		std.file.Close()
	}
	std.file = f
	std.out = f
	return path, nil
}

// CloseDebugLog closes the file opened by InitDebugLogFile, if any
func CloseDebugLog() error {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.file == nil {
		return nil
	}
	err := std.file.Close()
	if std.out == io.Writer(std.file) {
		std.out = nil
	}
	std.file = nil
	return err
}

// IsDebugEnabled reports whether debug lines are produced at all
func IsDebugEnabled() bool {
	if verbose.Load() || EnableDebug == "true" {
		return true
	}
	switch os.Getenv("DEBUG") {
	case "1", "true":
		return true
	}
	return false
}

// Log writes one "[DEBUG:component] ..." line. The message is formatted
// before the lock is taken and written with a single Write.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	line := "[DEBUG:" + component + "] " + fmt.Sprintf(format, args...)
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.out != nil {
		io.WriteString(std.out, line)
	}
}

// LogSearch logs coordinator events
func LogSearch(format string, args ...interface{}) {
	Log("SEARCH", format, args...)
}

// LogTask logs an event of a single scan task
func LogTask(id types.TaskID, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	Log("SEARCH", "task %d: %s", id, fmt.Sprintf(format, args...))
}

func LogConfig(format string, args ...interface{}) {
	Log("CONFIG", format, args...)
}

func LogCLI(format string, args ...interface{}) {
	Log("CLI", format, args...)
}
