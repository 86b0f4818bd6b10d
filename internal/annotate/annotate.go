// Package annotate rewrites a single source file with text generated by the
// backend. Exactly one write policy is active per run: Replace discards the
// original content in favor of the trimmed response, Prepend keeps the
// original and adds the response as a leading block comment. The two policies
// are mutually exclusive and never combined.
package annotate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/code-annotator/internal/llm"
	"github.com/jonathan/code-annotator/internal/observability"
	"github.com/jonathan/code-annotator/internal/prompts"
)

// Policy selects how the generated text is written back to the file
type Policy string

const (
	// PolicyReplace overwrites the file with the trimmed response
	PolicyReplace Policy = "replace"
	// PolicyPrepend keeps the file and prepends the response as a block comment
	PolicyPrepend Policy = "prepend"
)

// ParsePolicy validates a policy name from config or flags
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyReplace, PolicyPrepend:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown policy %q (expected %q or %q)", s, PolicyReplace, PolicyPrepend)
	}
}

// TrimPolicy describes how many generation preamble and postamble lines the
// Replace policy strips from the response. The defaults match the observed
// output shape of the Gemini backend; other backends may need different values.
type TrimPolicy struct {
	DropLeading  int
	DropTrailing int
}

// DefaultTrim drops one leading and two trailing lines.
var DefaultTrim = TrimPolicy{DropLeading: 1, DropTrailing: 2}

// Options configures an Annotator
type Options struct {
	Policy  Policy
	Trim    TrimPolicy
	Printer *observability.Printer
}

// Annotator sends file contents to the generation backend and writes the
// result back in place. Safe for concurrent use across files.
type Annotator struct {
	client        llm.Client
	policy        Policy
	trim          TrimPolicy
	printer       *observability.Printer
	replacePrompt string
	prependPrompt string
}

// New creates an Annotator for the given client and options
func New(client llm.Client, opts Options) (*Annotator, error) {
	if client == nil {
		return nil, fmt.Errorf("generation client is required")
	}
	if _, err := ParsePolicy(string(opts.Policy)); err != nil {
		return nil, err
	}
	if opts.Trim.DropLeading < 0 || opts.Trim.DropTrailing < 0 {
		return nil, fmt.Errorf("trim counts must be non-negative")
	}
	printer := opts.Printer
	if printer == nil {
		printer = observability.NewPrinter(os.Stdout)
	}

	return &Annotator{
		client:        client,
		policy:        opts.Policy,
		trim:          opts.Trim,
		printer:       printer,
		replacePrompt: prompts.MustGet("replace_instruction"),
		prependPrompt: prompts.MustGet("prepend_instruction"),
	}, nil
}

// Annotate reads the file, generates its annotation, and overwrites the file
// in place according to the active policy. No backup and no atomic rename.
func (a *Annotator) Annotate(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Path: path, Op: "read", Cause: err}
	}
	original := string(data)

	prompt := prompts.Format(a.promptTemplate(), map[string]string{"Content": original})

	response, err := a.client.GenerateContent(ctx, prompt)
	if err != nil {
		return &APICallError{Path: path, Message: "generation request failed", Cause: err}
	}

	var output string
	switch a.policy {
	case PolicyReplace:
		trimmed, ok := applyReplace(response, a.trim)
		if !ok {
			a.printer.Warnf("response for %s has too few lines to trim; leaving file unchanged", path)
			return ErrResponseTooShort
		}
		output = trimmed
	case PolicyPrepend:
		output = applyPrepend(response, original)
	}

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return &FileError{Path: path, Op: "write", Cause: err}
	}

	a.printer.Verbosef("annotated %s (%d -> %d bytes)", path, len(original), len(output))
	return nil
}

func (a *Annotator) promptTemplate() string {
	if a.policy == PolicyReplace {
		return a.replacePrompt
	}
	return a.prependPrompt
}

// applyReplace strips the trim policy's leading and trailing lines from the
// response and rejoins the remainder. Returns false when the response has too
// few lines for the trim to apply.
func applyReplace(response string, trim TrimPolicy) (string, bool) {
	lines := strings.Split(response, "\n")
	if len(lines) < trim.DropLeading+trim.DropTrailing {
		return "", false
	}
	return strings.Join(lines[trim.DropLeading:len(lines)-trim.DropTrailing], "\n"), true
}

// applyPrepend wraps the response in a block comment above the original content.
func applyPrepend(response, original string) string {
	return "/*\n" + response + "\n*/\n\n" + original
}
