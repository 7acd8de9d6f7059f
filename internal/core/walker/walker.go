// Package walker implements the depth-first, pre-order traversal that drives
// predicate evaluation and output for every visited entry.
//
// Traversal is strictly sequential: entries are visited in directory-read
// order, one blocking call at a time, so output order is deterministic.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/progress"
)

// StatPolicy decides what a failed stat of a nested entry does to the run
type StatPolicy int

const (
	// StatFatal aborts the whole run (default)
	StatFatal StatPolicy = iota
	// StatWarn prints a diagnostic, skips the entry and continues
	StatWarn
)

// ParseStatPolicy accepts "fatal" or "warn"
func ParseStatPolicy(s string) (StatPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fatal":
		return StatFatal, nil
	case "warn", "skip":
		return StatWarn, nil
	default:
		return StatFatal, fmt.Errorf("unknown stat error policy: %s", s)
	}
}

// String returns the config spelling of the policy
func (p StatPolicy) String() string {
	if p == StatWarn {
		return "warn"
	}
	return "fatal"
}

// Matcher decides whether an entry is reported
type Matcher interface {
	Match(entry domain.Entry) bool
}

// Emitter renders a matched entry and returns the number of lines written
type Emitter interface {
	Write(ctx context.Context, entry domain.Entry) (int, error)
}

// Diagnostics receives non-fatal messages meant for the user
type Diagnostics interface {
	Printf(format string, args ...any)
}

// WriterDiagnostics prints each diagnostic as one line on W
type WriterDiagnostics struct {
	W io.Writer
}

// Printf writes one diagnostic line
func (d WriterDiagnostics) Printf(format string, args ...any) {
	fmt.Fprintf(d.W, format+"\n", args...)
}

// Options configures a Walker
type Options struct {
	StatPolicy  StatPolicy
	Diagnostics Diagnostics
	Reporter    progress.Reporter
	Logger      logger.Logger
}

// Walker visits roots and their descendants
type Walker struct {
	fs       adapter.FS
	match    Matcher
	emit     Emitter
	policy   StatPolicy
	diag     Diagnostics
	reporter progress.Reporter
	log      logger.Logger
}

// New creates a walker; nil options fall back to discarding implementations
func New(fsys adapter.FS, match Matcher, emit Emitter, opts Options) *Walker {
	w := &Walker{
		fs:       fsys,
		match:    match,
		emit:     emit,
		policy:   opts.StatPolicy,
		diag:     opts.Diagnostics,
		reporter: opts.Reporter,
		log:      opts.Logger,
	}
	if w.diag == nil {
		w.diag = WriterDiagnostics{W: io.Discard}
	}
	if w.reporter == nil {
		w.reporter = progress.NullReporter{}
	}
	if w.log == nil {
		w.log = &logger.NullLogger{}
	}
	return w
}

// dirID identifies a directory for loop detection
type dirID struct {
	dev, ino uint64
	path     string
}

// Walk visits every root of task in order. It returns nil when all roots
// were exhausted, or the first fatal error.
func (w *Walker) Walk(ctx context.Context, task *domain.Task) error {
	for _, root := range task.Roots {
		entry := domain.Entry{
			Path:  root.Name,
			Name:  baseName(root.Name),
			Depth: 0,
			Meta:  root.Meta,
		}
		if err := w.visit(ctx, task, entry, nil); err != nil {
			return err
		}
	}
	return nil
}

// visit evaluates one entry, writes it on a match, then descends if allowed
func (w *Walker) visit(ctx context.Context, task *domain.Task, entry domain.Entry, ancestors []dirID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.reporter.Visited(entry.Path, entry.Depth)

	if w.match.Match(entry) {
		lines, err := w.emit.Write(ctx, entry)
		if err != nil {
			return fmt.Errorf("writing %s: %w", entry.Path, err)
		}
		w.reporter.Matched(entry.Path, lines)
	}

	if !entry.Meta.IsDir() {
		return nil
	}
	if !task.DescendAllowed(entry.Depth) {
		w.log.Debug("depth limit reached", "path", entry.Path, "depth", entry.Depth)
		return nil
	}

	self := dirID{dev: entry.Meta.Dev, ino: entry.Meta.Inode, path: entry.Path}
	if self.ino != 0 {
		for _, a := range ancestors {
			if a.dev == self.dev && a.ino == self.ino {
				w.diag.Printf("myfind: File system loop detected; '%s' is part of the same file system loop as '%s'.", entry.Path, a.path)
				w.reporter.LoopDetected(entry.Path, a.path)
				return nil
			}
		}
	}

	return w.walkDir(ctx, task, entry, append(ancestors, self))
}

// walkDir lists one directory and visits its children in read order.
// The directory handle is released on every return path.
func (w *Walker) walkDir(ctx context.Context, task *domain.Task, dir domain.Entry, ancestors []dirID) error {
	reader, err := w.fs.OpenDir(ctx, dir.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.skipDir(dir.Path, err)
		return nil
	}
	defer reader.Close()

	w.log.Debug("entering directory", "path", dir.Path, "depth", dir.Depth)

	for {
		de, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			w.skipDir(dir.Path, err)
			return nil
		}

		if de.Name == "." || de.Name == ".." {
			continue
		}

		childPath := joinPath(dir.Path, de.Name)
		depth := dir.Depth + 1

		meta, err := StatEntry(ctx, w.fs, childPath, task.LinkMode.Follow(depth))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if w.policy == StatFatal {
				return fmt.Errorf("%w: '%s': %v", domain.ErrStat, childPath, err)
			}
			w.diag.Printf("myfind: '%s': %v", childPath, err)
			w.reporter.EntrySkipped(childPath, err)
			continue
		}

		child := domain.Entry{
			Path:  childPath,
			Name:  de.Name,
			Depth: depth,
			Meta:  meta,
		}
		if err := w.visit(ctx, task, child, ancestors); err != nil {
			return err
		}
	}
}

func (w *Walker) skipDir(path string, err error) {
	if errors.Is(err, domain.ErrPermissionDenied) {
		w.diag.Printf("myfind: '%s': Permission denied", path)
	} else {
		w.diag.Printf("myfind: '%s': %v", path, err)
	}
	w.reporter.DirSkipped(path, err)
	w.log.Debug("directory skipped", "path", path, "error", err)
}

// StatEntry stats path, resolving symlinks when follow is set. A link whose
// target is missing falls back to the link's own metadata.
func StatEntry(ctx context.Context, fsys adapter.FS, path string, follow bool) (domain.Metadata, error) {
	meta, err := fsys.Stat(ctx, path, follow)
	if err != nil && follow && errors.Is(err, domain.ErrNotFound) {
		if linkMeta, lerr := fsys.Stat(ctx, path, false); lerr == nil {
			return linkMeta, nil
		}
	}
	return meta, err
}

// ResolveRoots takes the metadata snapshot of every root argument.
// A missing root is reported as domain.ErrNotFound.
func ResolveRoots(ctx context.Context, fsys adapter.FS, names []string, mode domain.LinkMode) ([]domain.RootEntry, error) {
	roots := make([]domain.RootEntry, 0, len(names))
	for _, name := range names {
		meta, err := StatEntry(ctx, fsys, name, mode.Follow(0))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w '%s'", domain.ErrNotFound, name)
			}
			return nil, fmt.Errorf("%w: '%s': %v", domain.ErrStat, name, err)
		}
		roots = append(roots, domain.RootEntry{Name: name, Meta: meta})
	}
	return roots, nil
}

// joinPath appends name to dir without doubling a trailing separator
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// baseName is the name -name is matched against for a root argument
func baseName(path string) string {
	if path == "" {
		return path
	}
	return filepath.Base(path)
}
