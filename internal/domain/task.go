package domain

import "strings"

// LinkMode governs whether symbolic links are resolved to their targets
type LinkMode int

const (
	// LinkNever uses link-local metadata everywhere (-P, default)
	LinkNever LinkMode = iota

	// LinkArgsOnly dereferences root arguments only (-H)
	LinkArgsOnly

	// LinkAlways dereferences every entry (-L)
	LinkAlways
)

// String returns the command line flag for the mode
func (m LinkMode) String() string {
	switch m {
	case LinkNever:
		return "-P"
	case LinkArgsOnly:
		return "-H"
	case LinkAlways:
		return "-L"
	default:
		return "unknown"
	}
}

// Follow reports whether an entry at the given depth is dereferenced
func (m LinkMode) Follow(depth int) bool {
	switch m {
	case LinkAlways:
		return true
	case LinkArgsOnly:
		return depth == 0
	default:
		return false
	}
}

// Predicate is one parsed element of the expression.
// Concrete types: NamePredicate, OwnerPredicate, TypePredicate,
// MTimePredicate, MaxDepthOption, ListDirective, PrintDirective.
type Predicate interface {
	// Flag returns the command line spelling, e.g. "-name"
	Flag() string
}

// NamePredicate matches the base filename against a glob pattern
type NamePredicate struct {
	Pattern string
}

func (NamePredicate) Flag() string { return "-name" }

// OwnerPredicate matches the owner by numeric id or login name pattern
type OwnerPredicate struct {
	Text    string
	Numeric bool
	UID     uint32
}

func (OwnerPredicate) Flag() string { return "-user" }

// TypePredicate matches if the entry type is any of Types
type TypePredicate struct {
	Types []FileType
}

func (TypePredicate) Flag() string { return "-type" }

// String renders the type list back into its comma form
func (p TypePredicate) String() string {
	codes := make([]string, len(p.Types))
	for i, t := range p.Types {
		codes[i] = t.String()
	}
	return strings.Join(codes, ",")
}

// Comparison selects how an mtime age is compared to its day count
type Comparison int

const (
	// CompareExact matches ages in [N, N+1)
	CompareExact Comparison = iota
	// CompareMore matches ages >= N+1 (leading '+')
	CompareMore
	// CompareLess matches ages <= N (leading '-')
	CompareLess
)

// MTimePredicate matches the modification age in days
type MTimePredicate struct {
	Days int64
	Cmp  Comparison
}

func (MTimePredicate) Flag() string { return "-mtime" }

// MaxDepthOption bounds the recursion depth; it is an option, not a test
type MaxDepthOption struct {
	Depth int
}

func (MaxDepthOption) Flag() string { return "-maxdepth" }

// ListDirective requests detailed listing output
type ListDirective struct{}

func (ListDirective) Flag() string { return "-ls" }

// PrintDirective requests plain name output
type PrintDirective struct{}

func (PrintDirective) Flag() string { return "-print" }

// RootEntry is a user-supplied starting path with its metadata snapshot
type RootEntry struct {
	Name string
	Meta Metadata
}

// Task is the complete description of one run.
// It is read-only once traversal starts.
type Task struct {
	// Roots in command line order
	Roots []RootEntry

	// Predicates in command line order
	Predicates []Predicate

	LinkMode LinkMode

	// MaxDepth of 0 means unbounded
	MaxDepth int

	// RepeatCount is how many detailed lines each match produces
	RepeatCount int
}

// Listing reports whether detailed output was requested
func (t *Task) Listing() bool {
	for _, p := range t.Predicates {
		if _, ok := p.(ListDirective); ok {
			return true
		}
	}
	return false
}

// Printing reports whether -print was given explicitly
func (t *Task) Printing() bool {
	for _, p := range t.Predicates {
		if _, ok := p.(PrintDirective); ok {
			return true
		}
	}
	return false
}

// DescendAllowed reports whether a directory at depth may be entered
func (t *Task) DescendAllowed(depth int) bool {
	return t.MaxDepth == 0 || depth < t.MaxDepth
}

// Repeat returns RepeatCount, never less than one
func (t *Task) Repeat() int {
	if t.RepeatCount < 1 {
		return 1
	}
	return t.RepeatCount
}
