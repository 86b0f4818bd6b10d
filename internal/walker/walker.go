// Package walker drives the annotation run: it recursively enumerates a
// directory tree, filters entries through the ignore patterns and suffix
// allow-set, and dispatches eligible files to the annotator through a bounded
// worker pool. The walk has an explicit join point; Run returns only after
// every dispatched file has finished.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/code-annotator/internal/annotate"
	"github.com/jonathan/code-annotator/internal/ignore"
	"github.com/jonathan/code-annotator/internal/observability"
)

// Annotator is the per-file operation the walker dispatches to
type Annotator interface {
	Annotate(ctx context.Context, path string) error
}

// DefaultSuffixes is the file-name allow-set used when none is configured.
var DefaultSuffixes = []string{".js", ".ts"}

// DefaultConcurrency bounds simultaneous annotation workers by default.
const DefaultConcurrency = 4

// Options configures a Walker
type Options struct {
	// Root is the directory the walk starts from
	Root string
	// Patterns is the immutable ignore-pattern set, matched as substrings
	// against full joined paths
	Patterns ignore.Patterns
	// Suffixes is the file-name allow-set; DefaultSuffixes when empty
	Suffixes []string
	// Concurrency bounds simultaneous annotation workers; DefaultConcurrency
	// when zero or negative
	Concurrency int
	Printer     *observability.Printer
}

// Walker traverses a directory tree and dispatches matched files
type Walker struct {
	annotator   Annotator
	root        string
	patterns    ignore.Patterns
	suffixes    []string
	concurrency int
	printer     *observability.Printer

	mu     sync.Mutex
	report *Report
}

// New creates a Walker for the given annotator and options
func New(annotator Annotator, opts Options) (*Walker, error) {
	if annotator == nil {
		return nil, fmt.Errorf("annotator is required")
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("root directory is required")
	}

	suffixes := opts.Suffixes
	if len(suffixes) == 0 {
		suffixes = DefaultSuffixes
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	printer := opts.Printer
	if printer == nil {
		printer = observability.NewPrinter(os.Stdout)
	}

	return &Walker{
		annotator:   annotator,
		root:        opts.Root,
		patterns:    opts.Patterns,
		suffixes:    suffixes,
		concurrency: concurrency,
		printer:     printer,
	}, nil
}

// Run walks the tree and blocks until every dispatched file has been
// processed. Per-file and per-directory failures are logged and recorded in
// the Report but never abort the run; Run returns an error only when the root
// itself cannot be read or the context is canceled.
func (w *Walker) Run(ctx context.Context) (*Report, error) {
	w.mu.Lock()
	w.report = &Report{Root: w.root}
	w.mu.Unlock()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	if err := w.walkDir(gCtx, g, w.root, true); err != nil {
		_ = g.Wait()
		return nil, err
	}

	if err := g.Wait(); err != nil {
		return w.report, err
	}
	if err := ctx.Err(); err != nil {
		return w.report, err
	}
	return w.report, nil
}

// walkDir enumerates one directory. A read failure aborts only this subtree
// unless the directory is the root.
func (w *Walker) walkDir(ctx context.Context, g *errgroup.Group, dir string, isRoot bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			return fmt.Errorf("failed to read root directory %s: %w", dir, err)
		}
		w.printer.Errorf("failed to read directory %s: %v", dir, err)
		w.recordFailure(dir, err)
		return nil
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}

		full := filepath.Join(dir, entry.Name())
		if w.patterns.ShouldIgnore(full) {
			w.addIgnored()
			w.printer.Verbosef("ignoring %s", full)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.printer.Errorf("failed to stat %s: %v", full, err)
			w.recordFailure(full, err)
			continue
		}

		switch {
		case info.IsDir():
			if err := w.walkDir(ctx, g, full, false); err != nil {
				return err
			}
		case info.Mode().IsRegular() && w.hasAllowedSuffix(entry.Name()):
			w.dispatch(ctx, g, full)
		default:
			// symlinks, sockets, and unmatched suffixes are not tasks
		}
	}
	return nil
}

// dispatch hands one file to the worker pool. Annotation failures are
// recorded, never returned, so one file can never abort the run. A file the
// annotator declined to rewrite is recorded as skipped, not annotated.
func (w *Walker) dispatch(ctx context.Context, g *errgroup.Group, path string) {
	w.addMatched()
	g.Go(func() error {
		err := w.annotator.Annotate(ctx, path)
		switch {
		case err == nil:
			w.recordSuccess(path)
		case errors.Is(err, annotate.ErrResponseTooShort):
			w.recordSkip(path)
		default:
			w.printer.Errorf("failed to process %s: %v", path, err)
			w.recordFailure(path, err)
		}
		return nil
	})
}

func (w *Walker) hasAllowedSuffix(name string) bool {
	for _, suffix := range w.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func (w *Walker) addMatched() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Matched++
}

func (w *Walker) recordSuccess(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Succeeded = append(w.report.Succeeded, path)
}

func (w *Walker) recordSkip(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Skipped = append(w.report.Skipped, path)
}

func (w *Walker) addIgnored() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Ignored++
}

func (w *Walker) recordFailure(path string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.report.Failures = append(w.report.Failures, FileFailure{Path: path, Err: err})
}
