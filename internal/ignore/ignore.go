// Package ignore provides substring-based path exclusion for the walker.
//
// Patterns are loaded once at startup from a plain-text file, one pattern per
// line. There is no glob syntax, no negation, and no precedence: a path is
// ignored iff at least one pattern occurs in it as a substring.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultFile is the pattern file looked up in the working directory.
const DefaultFile = ".ignoreconfig"

// Patterns is an immutable set of ignore patterns. The zero value ignores nothing.
type Patterns struct {
	entries []string
}

// Load reads patterns from the given file. A missing file is not an error and
// yields an empty set. Blank lines and lines starting with '#' are excluded;
// all other lines are kept verbatim after whitespace trimming.
func Load(path string) (Patterns, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Patterns{}, nil
		}
		return Patterns{}, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return Patterns{}, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}

	return Patterns{entries: entries}, nil
}

// FromSlice builds a pattern set directly. Intended for tests and callers that
// assemble patterns without a file.
func FromSlice(patterns []string) Patterns {
	entries := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		entries = append(entries, p)
	}
	return Patterns{entries: entries}
}

// ShouldIgnore reports whether the path contains any pattern as a substring.
// An empty set never ignores.
func (p Patterns) ShouldIgnore(path string) bool {
	for _, entry := range p.entries {
		if strings.Contains(path, entry) {
			return true
		}
	}
	return false
}

// Len returns the number of loaded patterns.
func (p Patterns) Len() int {
	return len(p.entries)
}
