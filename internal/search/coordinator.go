package search

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/mgrep/internal/debug"
	mgreperrors "github.com/standardbeagle/mgrep/internal/errors"
	"github.com/standardbeagle/mgrep/internal/types"
)

// Coordinator runs one scan task per file, joins them in spawn order and
// prints the grand total.
type Coordinator struct {
	sink       *OutputSink
	maxTasks   int
	opener     Opener
	bufferSize int
	admit      Admission
}

// Admission decides whether task id may be created. A non-nil error aborts
// the run as a task-creation failure.
type Admission func(id types.TaskID) error

// Option configures a Coordinator
type Option func(*Coordinator)

// WithMaxTasks caps the number of tasks running at once. 0 means no cap.
// At the cap, spawning waits for a running task to finish.
func WithMaxTasks(n int) Option {
	return func(c *Coordinator) {
		c.maxTasks = n
	}
}

// WithOpener replaces the function tasks use to open their file
func WithOpener(o Opener) Option {
	return func(c *Coordinator) {
		c.opener = o
	}
}

// WithAdmission installs a check consulted before each task is created
func WithAdmission(a Admission) Option {
	return func(c *Coordinator) {
		c.admit = a
	}
}

// WithBufferSize sets the per-task read buffer size
func WithBufferSize(n int) Option {
	return func(c *Coordinator) {
		c.bufferSize = n
	}
}

// NewCoordinator creates a coordinator that reports through sink
func NewCoordinator(sink *OutputSink, opts ...Option) *Coordinator {
	c := &Coordinator{
		sink:       sink,
		opener:     OpenFile,
		bufferSize: types.DefaultReadBufferSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// taskHandle is the join point for one spawned task. result is written
// before done is closed and read only after.
type taskHandle struct {
	done   chan struct{}
	result types.TaskResult
}

// Run scans every file in sc. It returns an error only when a task cannot
// be created; in that case tasks already started are left to finish on
// their own and no total is printed. Per-file failures are reported
// through the sink and show up in the aggregate, never as an error.
func (c *Coordinator) Run(sc *SearchContext) (*types.AggregateResult, error) {
	start := time.Now()

	var g errgroup.Group
	if c.maxTasks > 0 {
		g.SetLimit(c.maxTasks)
	}

	handles := make([]*taskHandle, sc.Len())
	for i := range handles {
		id := types.TaskID(i)
		if c.admit != nil {
			if err := c.admit(id); err != nil {
				debug.LogTask(id, "spawn refused after %d tasks: %v\n", i, err)
				return nil, mgreperrors.NewTaskError(id, err)
			}
		}

		task := newScanTask(id, sc, c.sink, c.opener, c.bufferSize)
		h := &taskHandle{done: make(chan struct{})}

		// blocks while maxTasks tasks are running
		g.Go(func() error {
			defer close(h.done)
			h.result = task.run()
			return nil
		})
		handles[i] = h
	}
	debug.LogSearch("spawned %d tasks for pattern %q\n", len(handles), sc.Pattern())

	agg := &types.AggregateResult{Tasks: make([]types.TaskResult, 0, len(handles))}
	for _, h := range handles {
		<-h.done
		agg.TotalMatchedLines += h.result.Matches
		agg.Tasks = append(agg.Tasks, h.result)
	}

	// tasks never return errors; Wait is the final barrier
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}

	c.sink.Total(agg.TotalMatchedLines)
	debug.LogSearch("joined %d tasks in %v: %s\n", len(handles), time.Since(start), agg)
	return agg, nil
}

// Search is a convenience wrapper that builds the context and runs it
func (c *Coordinator) Search(pattern string, files []string) (*types.AggregateResult, error) {
	return c.Run(NewSearchContext(pattern, files))
}

// Errors collects the per-task failures of a finished run
func Errors(agg *types.AggregateResult) error {
	if agg == nil {
		return nil
	}
	errs := make([]error, 0, len(agg.Tasks))
	for _, t := range agg.Tasks {
		errs = append(errs, t.Err)
	}
	return mgreperrors.NewMultiError(errs).ErrorOrNil()
}
