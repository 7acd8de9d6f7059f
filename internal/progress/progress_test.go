package progress

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

// TestCallbackReporter_Counts tests the running summary
func TestCallbackReporter_Counts(t *testing.T) {
	reporter := NewCallbackReporter(nil)

	reporter.Visited("a", 0)
	reporter.Visited("a/b", 1)
	reporter.Visited("a/b/c", 2)
	reporter.Matched("a/b", 2)
	reporter.DirSkipped("a/locked", errors.New("permission denied"))
	reporter.EntrySkipped("a/gone", errors.New("stat failed"))
	reporter.LoopDetected("a/b/loop", "a")

	s := reporter.Summary()
	if s.Visited != 3 {
		t.Errorf("expected Visited 3, got %d", s.Visited)
	}
	if s.Matched != 1 {
		t.Errorf("expected Matched 1, got %d", s.Matched)
	}
	if s.Lines != 2 {
		t.Errorf("expected Lines 2, got %d", s.Lines)
	}
	if s.DirsSkipped != 1 || s.EntriesSkipped != 1 || s.Loops != 1 {
		t.Errorf("unexpected skip counters: %+v", s)
	}
	if s.MaxDepth != 2 {
		t.Errorf("expected MaxDepth 2, got %d", s.MaxDepth)
	}
}

// TestCallbackReporter_Callback tests that each event is delivered in order
func TestCallbackReporter_Callback(t *testing.T) {
	var updates []Update
	var mu sync.Mutex

	reporter := NewCallbackReporter(func(u Update) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	})

	reporter.Visited("root", 0)
	reporter.Matched("root", 1)

	mu.Lock()
	defer mu.Unlock()

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Type != UpdateVisited || updates[0].Path != "root" {
		t.Errorf("unexpected first update: %+v", updates[0])
	}
	if updates[1].Type != UpdateMatched || updates[1].Lines != 1 {
		t.Errorf("unexpected second update: %+v", updates[1])
	}
	if updates[1].Summary.Visited != 1 || updates[1].Summary.Matched != 1 {
		t.Errorf("summary not carried on update: %+v", updates[1].Summary)
	}
}

// TestCallbackReporter_CallbackMayReenter tests the callback runs outside the lock
func TestCallbackReporter_CallbackMayReenter(t *testing.T) {
	var reporter *CallbackReporter
	var seen Summary
	reporter = NewCallbackReporter(func(u Update) {
		seen = reporter.Summary()
	})

	reporter.Visited("x", 0)
	if seen.Visited != 1 {
		t.Errorf("expected Visited 1 inside callback, got %d", seen.Visited)
	}
}

func TestSummary_String(t *testing.T) {
	s := Summary{Visited: 4, Matched: 2, Lines: 3}
	out := s.String()
	for _, want := range []string{"visited=4", "matched=2", "lines=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q missing %q", out, want)
		}
	}
}

func TestUpdateType_String(t *testing.T) {
	if UpdateLoop.String() != "loop" {
		t.Errorf("unexpected name %q", UpdateLoop.String())
	}
	if UpdateType(99).String() != "unknown" {
		t.Errorf("unexpected name %q", UpdateType(99).String())
	}
}

func TestNullReporter(t *testing.T) {
	var r Reporter = NullReporter{}
	r.Visited("x", 0)
	r.Matched("x", 1)
	r.DirSkipped("x", nil)
	r.EntrySkipped("x", nil)
	r.LoopDetected("x", "y")
}
