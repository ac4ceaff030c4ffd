package search

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/standardbeagle/mgrep/internal/types"
)

// LineScanner walks a reader line by line and stops on lines that contain
// the pattern. It follows the bufio.Scanner shape:
//
//	s := NewLineScanner(f, "foo")
//	for s.Next() {
//	    use(s.LineNumber(), s.Line())
//	}
//	if err := s.Err(); err != nil { ... }
//
// Lines longer than types.MaxLineLength bytes are cut to that length and
// the rest of the physical line is skipped. Only the kept prefix is
// matched. A LineScanner is single-use and must not be shared between
// goroutines.
type LineScanner struct {
	r       *bufio.Reader
	pattern []byte

	line    []byte // current line content plus '\n' when the line had one
	content int    // length of line without the terminator
	lineNum int

	count uint64
	err   error
	done  bool
}

// NewLineScanner creates a scanner with the default read buffer size
func NewLineScanner(r io.Reader, pattern string) *LineScanner {
	return NewLineScannerSize(r, pattern, types.DefaultReadBufferSize)
}

// NewLineScannerSize creates a scanner whose read buffer is at least size bytes.
// Sizes below types.MinReadBufferSize are raised to it.
func NewLineScannerSize(r io.Reader, pattern string, size int) *LineScanner {
	if size < types.MinReadBufferSize {
		size = types.MinReadBufferSize
	}
	return &LineScanner{
		r:       bufio.NewReaderSize(r, size),
		pattern: []byte(pattern),
		line:    make([]byte, 0, types.MaxLineLength+1),
	}
}

// Next advances to the next matching line. It returns false at end of
// input or on a read error; call Err to tell them apart.
func (s *LineScanner) Next() bool {
	for !s.done {
		ok, err := s.readLine()
		if err != nil {
			s.err = err
			s.done = true
			return false
		}
		if !ok {
			s.done = true
			return false
		}
		s.lineNum++
		if bytes.Contains(s.line[:s.content], s.pattern) {
			s.count++
			return true
		}
	}
	return false
}

// readLine loads one physical line into s.line. It reports false when the
// input is exhausted before any byte of a new line was read.
func (s *LineScanner) readLine() (bool, error) {
	s.line = s.line[:0]
	read := false
	for {
		chunk, err := s.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}

		data := chunk
		if err == nil {
			data = chunk[:len(chunk)-1]
		}
		if room := types.MaxLineLength - len(s.line); room > 0 {
			if len(data) > room {
				data = data[:room]
			}
			s.line = append(s.line, data...)
		}

		switch {
		case err == nil:
			s.content = len(s.line)
			s.line = append(s.line, '\n')
			return true, nil
		case errors.Is(err, bufio.ErrBufferFull):
			// still inside an over-long line
			continue
		case errors.Is(err, io.EOF):
			s.content = len(s.line)
			return read, nil
		default:
			return false, err
		}
	}
}

// LineNumber returns the 1-based number of the current matching line
func (s *LineScanner) LineNumber() int {
	return s.lineNum
}

// Line returns the current matching line, including its newline if it had
// one. The slice is overwritten by the next call to Next.
func (s *LineScanner) Line() []byte {
	return s.line
}

// Record packages the current match for the output sink
func (s *LineScanner) Record(filename string) types.MatchRecord {
	return types.MatchRecord{
		Filename:   filename,
		LineNumber: s.lineNum,
		Line:       s.line,
	}
}

// Count returns the number of matching lines seen so far
func (s *LineScanner) Count() uint64 {
	return s.count
}

// Lines returns the number of physical lines read so far
func (s *LineScanner) Lines() int {
	return s.lineNum
}

// Err returns the first non-EOF read error
func (s *LineScanner) Err() error {
	return s.err
}
