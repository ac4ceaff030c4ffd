package search

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/standardbeagle/mgrep/internal/types"
)

// OutputSink serializes messages from concurrent scan tasks onto one writer.
// Every method formats its message outside the lock and then performs a
// single Write while holding it, so each message lands whole. No ordering
// is promised between messages from different tasks.
type OutputSink struct {
	mu  sync.Mutex
	w   io.Writer
	err error // first write error
}

// NewOutputSink wraps w
func NewOutputSink(w io.Writer) *OutputSink {
	return &OutputSink{w: w}
}

func (o *OutputSink) write(msg []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := o.w.Write(msg); err != nil && o.err == nil {
		o.err = err
	}
}

// Match prints "<FILENAME : LINE>: TEXT". A newline is added only when the
// line text does not already end with one.
func (o *OutputSink) Match(rec types.MatchRecord) {
	msg := make([]byte, 0, len(rec.Filename)+len(rec.Line)+16)
	msg = append(msg, '<')
	msg = append(msg, rec.Filename...)
	msg = append(msg, " : "...)
	msg = strconv.AppendInt(msg, int64(rec.LineNumber), 10)
	msg = append(msg, ">: "...)
	msg = append(msg, rec.Line...)
	if len(rec.Line) == 0 || rec.Line[len(rec.Line)-1] != '\n' {
		msg = append(msg, '\n')
	}
	o.write(msg)
}

// Summary prints a task's final match count
func (o *OutputSink) Summary(id types.TaskID, count uint64, filename string) {
	o.write(fmt.Appendf(nil, "Task %d: %d matches are found in file %s\n", id, count, filename))
}

// OpenFailure reports a file that could not be opened. sysMsg is the bare
// operating system description of the failure.
func (o *OutputSink) OpenFailure(id types.TaskID, filename, sysMsg string) {
	o.write(fmt.Appendf(nil, "Task %d could not open <%s> file for reading: %s\n", id, filename, sysMsg))
}

// ReadFailure reports a file that opened but failed part way through reading
func (o *OutputSink) ReadFailure(id types.TaskID, filename, sysMsg string) {
	o.write(fmt.Appendf(nil, "Task %d could not read <%s> file: %s\n", id, filename, sysMsg))
}

// Total prints the grand total line
func (o *OutputSink) Total(total uint64) {
	o.write(fmt.Appendf(nil, "Total matched lines: %d\n", total))
}

// Err returns the first error returned by the underlying writer
func (o *OutputSink) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
