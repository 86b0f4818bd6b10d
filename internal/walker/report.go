package walker

import (
	"fmt"
	"strings"
)

// maxFailuresToShow caps the failure list in the printed summary
const maxFailuresToShow = 5

// FileFailure records one path that could not be processed
type FileFailure struct {
	Path string
	Err  error
}

// Report is the aggregate outcome of one run, produced after the join point.
type Report struct {
	Root      string
	Matched   int
	Ignored   int
	Succeeded []string
	// Skipped lists matched files the annotator left unchanged because the
	// response could not be trimmed
	Skipped  []string
	Failures []FileFailure
}

// Annotated returns the number of successfully rewritten files
func (r *Report) Annotated() int {
	return len(r.Succeeded)
}

// Failed returns the number of recorded failures
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Summary renders the report for the end-of-run box
func (r *Report) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Root:       %s\n", r.Root))
	sb.WriteString(fmt.Sprintf("Matched:    %d\n", r.Matched))
	sb.WriteString(fmt.Sprintf("Annotated:  %d\n", r.Annotated()))
	sb.WriteString(fmt.Sprintf("Skipped:    %d\n", len(r.Skipped)))
	sb.WriteString(fmt.Sprintf("Ignored:    %d\n", r.Ignored))
	sb.WriteString(fmt.Sprintf("Failed:     %d", r.Failed()))

	if len(r.Failures) > 0 {
		sb.WriteString("\n\nFailures:")
		count := min(len(r.Failures), maxFailuresToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("\n  %s", r.Failures[i].Path))
		}
		if len(r.Failures) > maxFailuresToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(r.Failures)-maxFailuresToShow))
		}
	}

	return sb.String()
}
