// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
)

// Printer handles console output. It is safe for concurrent use; annotation
// workers log through it while the walk is in flight.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// SetVerbose enables or disables verbose output
func (p *Printer) SetVerbose(verbose bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verbose = verbose
}

// Stepf prints a progress line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Stepf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warnf prints a warning line in yellow
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Warnf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	warnColor.Fprintf(p.out, "Warning: "+format+"\n", args...)
}

// Errorf prints an error line in red
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Errorf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	errColor.Fprintf(p.out, "Error: "+format+"\n", args...)
}

// Verbosef prints a debug line, only when verbose mode is enabled
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Verbosef(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "[VERBOSE] "+format+"\n", args...)
}

// Box prints a formatted box with a title and multi-line content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Box(title string, content string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}
