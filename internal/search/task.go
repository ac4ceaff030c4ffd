package search

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/mgrep/internal/debug"
	mgreperrors "github.com/standardbeagle/mgrep/internal/errors"
	"github.com/standardbeagle/mgrep/internal/types"
)

// Opener opens a task's file for reading
type Opener func(name string) (io.ReadCloser, error)

// OpenFile is the default Opener
func OpenFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// scanTask scans the single file at files[id]. It owns its file handle and
// line buffer for the duration of run and talks to other tasks only through
// the sink.
type scanTask struct {
	id         types.TaskID
	sc         *SearchContext
	sink       *OutputSink
	opener     Opener
	bufferSize int
	state      types.TaskState
}

func newScanTask(id types.TaskID, sc *SearchContext, sink *OutputSink, opener Opener, bufferSize int) *scanTask {
	if opener == nil {
		opener = OpenFile
	}
	return &scanTask{
		id:         id,
		sc:         sc,
		sink:       sink,
		opener:     opener,
		bufferSize: bufferSize,
		state:      types.TaskCreated,
	}
}

// run drives the task to a terminal state and returns its result.
// Open and read failures are reported through the sink and recorded in
// the result; they never escape as errors.
func (t *scanTask) run() types.TaskResult {
	t.state = types.TaskRunning
	filename := t.sc.File(int(t.id))
	result := types.TaskResult{ID: t.id, Filename: filename}

	f, err := t.opener(filename)
	if err != nil {
		ferr := mgreperrors.NewFileError("open", t.id, filename, err)
		t.sink.OpenFailure(t.id, filename, ferr.SystemMessage())
		debug.LogTask(t.id, "%v\n", ferr)

		t.state = types.TaskOpenFailed
		result.State = t.state
		result.Err = ferr
		return result
	}

	digest := xxhash.New()
	scanner := NewLineScannerSize(f, t.sc.Pattern(), t.bufferSize)
	for scanner.Next() {
		rec := scanner.Record(filename)
		t.sink.Match(rec)
		digest.Write(rec.Line)
	}

	if cerr := f.Close(); cerr != nil {
		debug.LogTask(t.id, "close %s: %v\n", filename, cerr)
	}

	if err := scanner.Err(); err != nil {
		ferr := mgreperrors.NewFileError("read", t.id, filename, err)
		t.sink.ReadFailure(t.id, filename, ferr.SystemMessage())
		debug.LogTask(t.id, "%v\n", ferr)
		result.Err = ferr
	}

	result.Matches = scanner.Count()
	result.Digest = digest.Sum64()
	t.sink.Summary(t.id, result.Matches, filename)
	debug.LogTask(t.id, "%d/%d lines matched in %s (digest %016x)\n",
		result.Matches, scanner.Lines(), filename, result.Digest)

	t.state = types.TaskCompleted
	result.State = t.state
	return result
}
