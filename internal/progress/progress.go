package progress

import (
	"fmt"
	"sync"
)

// Reporter receives traversal events from the walker
type Reporter interface {
	// Visited is called for every entry that reaches predicate evaluation
	Visited(path string, depth int)
	// Matched is called when an entry matched and lines were written
	Matched(path string, lines int)
	// DirSkipped is called when a directory could not be read
	DirSkipped(path string, err error)
	// EntrySkipped is called when an entry was dropped under the warn policy
	EntrySkipped(path string, err error)
	// LoopDetected is called when a directory loop was not re-entered
	LoopDetected(path, ancestor string)
}

// Callback is a function that receives progress updates
type Callback func(update Update)

// Update represents a single traversal event plus running totals
type Update struct {
	Type    UpdateType
	Path    string
	Depth   int
	Lines   int
	Error   error
	Summary Summary
}

// UpdateType indicates the type of progress update
type UpdateType int

const (
	UpdateVisited UpdateType = iota
	UpdateMatched
	UpdateDirSkipped
	UpdateEntrySkipped
	UpdateLoop
)

// String returns the update type name
func (t UpdateType) String() string {
	switch t {
	case UpdateVisited:
		return "visited"
	case UpdateMatched:
		return "matched"
	case UpdateDirSkipped:
		return "dir_skipped"
	case UpdateEntrySkipped:
		return "entry_skipped"
	case UpdateLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Summary holds the counters of one run
type Summary struct {
	Visited        int
	Matched        int
	Lines          int
	DirsSkipped    int
	EntriesSkipped int
	Loops          int
	MaxDepth       int
}

// String renders the summary for log output
func (s Summary) String() string {
	return fmt.Sprintf("visited=%d matched=%d lines=%d dirs_skipped=%d entries_skipped=%d loops=%d max_depth=%d",
		s.Visited, s.Matched, s.Lines, s.DirsSkipped, s.EntriesSkipped, s.Loops, s.MaxDepth)
}

// CallbackReporter implements Reporter with a callback function
type CallbackReporter struct {
	callback Callback
	mu       sync.Mutex
	summary  Summary
}

// NewCallbackReporter creates a new CallbackReporter; callback may be nil
func NewCallbackReporter(callback Callback) *CallbackReporter {
	return &CallbackReporter{
		callback: callback,
	}
}

// Summary returns a copy of the counters so far
func (r *CallbackReporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}

// Visited records a visited entry
func (r *CallbackReporter) Visited(path string, depth int) {
	r.emit(Update{Type: UpdateVisited, Path: path, Depth: depth}, func(s *Summary) {
		s.Visited++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
	})
}

// Matched records a matched entry
func (r *CallbackReporter) Matched(path string, lines int) {
	r.emit(Update{Type: UpdateMatched, Path: path, Lines: lines}, func(s *Summary) {
		s.Matched++
		s.Lines += lines
	})
}

// DirSkipped records an unreadable directory
func (r *CallbackReporter) DirSkipped(path string, err error) {
	r.emit(Update{Type: UpdateDirSkipped, Path: path, Error: err}, func(s *Summary) {
		s.DirsSkipped++
	})
}

// EntrySkipped records an entry dropped after a stat failure
func (r *CallbackReporter) EntrySkipped(path string, err error) {
	r.emit(Update{Type: UpdateEntrySkipped, Path: path, Error: err}, func(s *Summary) {
		s.EntriesSkipped++
	})
}

// LoopDetected records a directory loop
func (r *CallbackReporter) LoopDetected(path, ancestor string) {
	r.emit(Update{Type: UpdateLoop, Path: path, Error: fmt.Errorf("same directory as %s", ancestor)}, func(s *Summary) {
		s.Loops++
	})
}

func (r *CallbackReporter) emit(update Update, apply func(*Summary)) {
	r.mu.Lock()
	apply(&r.summary)
	update.Summary = r.summary
	callback := r.callback
	r.mu.Unlock()

	// Call callback outside lock to prevent deadlock
	if callback != nil {
		callback(update)
	}
}

// NullReporter is a no-op reporter
type NullReporter struct{}

func (NullReporter) Visited(path string, depth int)      {}
func (NullReporter) Matched(path string, lines int)      {}
func (NullReporter) DirSkipped(path string, err error)   {}
func (NullReporter) EntrySkipped(path string, err error) {}
func (NullReporter) LoopDetected(path, ancestor string)  {}
