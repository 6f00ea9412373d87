package check

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Status is the overall outcome of a run.
type Status int

const (
	// Clean means the walk found no diagnostics.
	Clean Status = iota
	// HasErrors means the walk found at least one diagnostic.
	HasErrors
	// Unparsable means the source did not parse and was never walked.
	Unparsable
)

const (
	// CleanPrefix starts the text of every clean result. Callers that only see
	// the text can detect a clean run with strings.HasPrefix.
	CleanPrefix = "No type errors"
	// CleanMessage is the text of a clean result without warnings.
	CleanMessage = CleanPrefix + " found."
)

// Result is the outcome of a single run. It is built once and is read only
// through its methods, which hand out copies.
type Result struct {
	status      Status
	diagnostics []Diagnostic
	warnings    []string
	syntax      *Diagnostic
}

func (s Status) String() string {
	switch s {
	case Clean:
		return "clean"
	case HasErrors:
		return "errors"
	case Unparsable:
		return "syntax"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func newResult(diagnostics []*Diagnostic, warnings []string) Result {
	res := Result{status: Clean, warnings: append([]string(nil), warnings...)}
	if len(diagnostics) > 0 {
		res.status = HasErrors
		res.diagnostics = make([]Diagnostic, len(diagnostics))
		for i, diag := range diagnostics {
			res.diagnostics[i] = *diag
		}
	}
	return res
}

func unparsable(err error, line int64) Result {
	return Result{status: Unparsable, syntax: syntaxFailure(err, line)}
}

// Status returns the outcome of the run.
func (r Result) Status() Status { return r.status }

// OK is true only for a clean run.
func (r Result) OK() bool { return r.status == Clean }

// Diagnostics returns the diagnostics in the order they were found. It is
// always empty for source that did not parse.
func (r Result) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diagnostics...)
}

// Warnings returns advisory messages of a clean run.
func (r Result) Warnings() []string {
	return append([]string(nil), r.warnings...)
}

// SyntaxError returns the SyntaxFailure diagnostic when the source did not
// parse, and nil otherwise. It unwraps to the parser's *lerrors.Error.
func (r Result) SyntaxError() error {
	if r.syntax == nil {
		return nil
	}
	diag := *r.syntax
	return &diag
}

// Incomplete reports if the source only failed to parse because it ended in
// the middle of a statement.
func (r Result) Incomplete() bool {
	return r.syntax != nil && errors.Is(r.syntax.Err, io.EOF)
}

// Lines returns one rendered line per diagnostic, or the single syntax error
// line.
func (r Result) Lines() []string {
	if r.syntax != nil {
		return []string{r.syntax.Message}
	}
	lines := make([]string, len(r.diagnostics))
	for i, diag := range r.diagnostics {
		lines[i] = diag.Message
	}
	return lines
}

func (r Result) String() string {
	switch r.status {
	case Clean:
		if len(r.warnings) == 0 {
			return CleanMessage
		}
		return CleanMessage + "\n\nWarnings:\n" + strings.Join(r.warnings, "\n")
	default:
		return strings.Join(r.Lines(), "\n")
	}
}

// since drops the diagnostics found on or before line.
func (r Result) since(line int64) Result {
	kept := []*Diagnostic{}
	for i := range r.diagnostics {
		if r.diagnostics[i].Line > line {
			kept = append(kept, &r.diagnostics[i])
		}
	}
	return newResult(kept, r.warnings)
}
