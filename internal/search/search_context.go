package search

// SearchContext is the read-only input shared by every scan task of one run.
// It is fully built before the first task starts and never changes after,
// so tasks read it without locking.
type SearchContext struct {
	pattern string
	files   []string
}

// NewSearchContext copies files so later changes to the caller's slice
// cannot reach running tasks.
func NewSearchContext(pattern string, files []string) *SearchContext {
	return &SearchContext{
		pattern: pattern,
		files:   append([]string(nil), files...),
	}
}

// Pattern returns the literal search string
func (sc *SearchContext) Pattern() string {
	return sc.pattern
}

// File returns the path assigned to task index i
func (sc *SearchContext) File(i int) string {
	return sc.files[i]
}

// Len returns the number of files, which is also the number of tasks
func (sc *SearchContext) Len() int {
	return len(sc.files)
}
