package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/adapter/local"
	"github.com/Ning0612/myfind/internal/config"
	"github.com/Ning0612/myfind/internal/core/format"
	"github.com/Ning0612/myfind/internal/core/predicate"
	"github.com/Ning0612/myfind/internal/core/walker"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/progress"
)

// FindService runs one search: it resolves roots, builds the evaluator
// and formatter for the task, and drives the walker
type FindService struct {
	config *config.Config
	fs     adapter.FS
	out    io.Writer
	diag   walker.Diagnostics
	policy walker.StatPolicy
	now    func() time.Time
}

// Options configures a FindService
type Options struct {
	// FS defaults to the local filesystem
	FS adapter.FS

	// Out receives listings and diagnostics
	Out io.Writer

	// Color highlights diagnostics
	Color bool

	// Now is the reference clock for -mtime; defaults to time.Now
	Now func() time.Time
}

// NewFindService creates a new find service
func NewFindService(cfg *config.Config, opts Options) (*FindService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if opts.Out == nil {
		return nil, fmt.Errorf("output writer cannot be nil")
	}

	policy, err := walker.ParseStatPolicy(cfg.Walk.OnStatError)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	fsys := opts.FS
	if fsys == nil {
		fsys = local.New()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &FindService{
		config: cfg,
		fs:     fsys,
		out:    opts.Out,
		diag:   NewDiagnostics(opts.Out, opts.Color),
		policy: policy,
		now:    now,
	}, nil
}

// Diagnostics returns the writer used for non-fatal messages
func (s *FindService) Diagnostics() walker.Diagnostics {
	return s.diag
}

// Run searches paths with task. task.Roots is filled from paths before the
// walk starts; a missing root aborts the run before anything is printed.
func (s *FindService) Run(ctx context.Context, paths []string, task domain.Task) (progress.Summary, error) {
	log := logger.With("link_mode", task.LinkMode.String(), "maxdepth", task.MaxDepth)
	log.Debug("resolving roots", "paths", paths)

	roots, err := walker.ResolveRoots(ctx, s.fs, paths, task.LinkMode)
	if err != nil {
		log.Error("failed to resolve roots", "error", err)
		return progress.Summary{}, err
	}
	task.Roots = roots

	reporter := progress.NewCallbackReporter(func(u progress.Update) {
		switch u.Type {
		case progress.UpdateDirSkipped, progress.UpdateEntrySkipped:
			log.Debug("entry skipped", "type", u.Type.String(), "path", u.Path, "error", u.Error)
		case progress.UpdateLoop:
			log.Debug("file system loop", "path", u.Path)
		}
	})

	matcher := predicate.NewSet(task.Predicates, s.fs, s.now())
	formatter := format.New(s.out, s.fs, &task, format.Options{NameWidth: s.config.Output.NameWidth})

	w := walker.New(s.fs, matcher, formatter, walker.Options{
		StatPolicy:  s.policy,
		Diagnostics: s.diag,
		Reporter:    reporter,
		Logger:      log,
	})

	err = w.Walk(ctx, &task)
	summary := reporter.Summary()

	if err != nil {
		log.Error("search aborted", "error", err, "visited", summary.Visited)
		return summary, err
	}

	log.Info("search completed",
		"roots", len(task.Roots),
		"visited", summary.Visited,
		"matched", summary.Matched,
		"lines", summary.Lines,
		"dirs_skipped", summary.DirsSkipped,
		"entries_skipped", summary.EntriesSkipped,
		"loops", summary.Loops,
		"deepest", summary.MaxDepth,
	)

	return summary, nil
}

// colorDiagnostics prints diagnostics one per line, in yellow when enabled
type colorDiagnostics struct {
	w io.Writer
	c *color.Color
}

// NewDiagnostics returns a diagnostics writer for w
func NewDiagnostics(w io.Writer, enabled bool) walker.Diagnostics {
	c := color.New(color.FgYellow)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return colorDiagnostics{w: w, c: c}
}

// Printf writes one diagnostic line
func (d colorDiagnostics) Printf(format string, args ...any) {
	d.c.Fprintf(d.w, format, args...)
	fmt.Fprintln(d.w)
}
