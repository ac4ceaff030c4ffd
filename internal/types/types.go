package types

import (
	"fmt"
	"strings"
)

// Common system-wide constants
const (
	// MaxLineLength is the longest line prefix, in bytes, that is examined for a match.
	// Longer lines are truncated at read time; the remainder is discarded.
	MaxLineLength = 1024

	// DefaultReadBufferSize is the per-task read buffer used when no configuration overrides it.
	DefaultReadBufferSize = 4 * 1024

	// MinReadBufferSize must hold a full capped line plus its terminator.
	MinReadBufferSize = MaxLineLength + 1
)

// TaskID is a task's position in the search file list. It doubles as the
// task identity printed in summaries and error messages.
type TaskID int

// TaskState tracks a scan task through its lifecycle.
type TaskState uint8

const (
	TaskCreated TaskState = iota
	TaskRunning
	TaskCompleted
	TaskOpenFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskCreated:
		return "created"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskOpenFailed:
		return "open_failed"
	default:
		return fmt.Sprintf("TaskState(%d)", uint8(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s TaskState) Terminal() bool {
	return s == TaskCompleted || s == TaskOpenFailed
}

// MatchRecord is a single matching line. Line aliases the scanner's buffer
// and is only valid until the scanner advances.
type MatchRecord struct {
	Filename   string
	LineNumber int
	Line       []byte
}

// TaskResult is what a scan task hands back to the coordinator when it finishes.
type TaskResult struct {
	ID       TaskID
	Filename string
	State    TaskState
	Matches  uint64
	Digest   uint64 // xxhash of matched line texts, in line order
	Err      error  // open or read failure; never fatal to the run
}

// AggregateResult is the coordinator's view of a finished run.
type AggregateResult struct {
	TotalMatchedLines uint64
	Tasks             []TaskResult // spawn order
}

// Failed returns the results of tasks that hit an open or read error.
func (a *AggregateResult) Failed() []TaskResult {
	var failed []TaskResult
	for _, t := range a.Tasks {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

// String renders a compact one-line description, used in debug output.
func (a *AggregateResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "total=%d tasks=%d", a.TotalMatchedLines, len(a.Tasks))
	if failed := a.Failed(); len(failed) > 0 {
		fmt.Fprintf(&sb, " failed=%d", len(failed))
	}
	return sb.String()
}
