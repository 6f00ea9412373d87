package check

import (
	"fmt"

	"github.com/tanema/luafcheck/src/types"
)

type (
	// DiagnosticKind describes which rule a diagnostic came from.
	DiagnosticKind int
	// Diagnostic is a single problem found in the source. Inference failures
	// are returned as *Diagnostic values through the error interface so that
	// callers can pick them out with errors.As.
	Diagnostic struct {
		Kind    DiagnosticKind
		Line    int64
		Message string
		// Err is the underlying parser error of a SyntaxFailure.
		Err error
	}
)

const (
	// TypeMismatch is either a binary operation over two different kinds or a
	// variable bound again to a kind different from its first one.
	TypeMismatch DiagnosticKind = iota
	// UndefinedVariable is a name read before any assignment bound it.
	UndefinedVariable
	// RegexArgument is a regex call with too few arguments or with a pattern
	// or subject that is not a string.
	RegexArgument
	// SyntaxFailure is source that could not be parsed at all.
	SyntaxFailure
)

func (k DiagnosticKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case UndefinedVariable:
		return "undefined variable"
	case RegexArgument:
		return "regex argument"
	case SyntaxFailure:
		return "syntax failure"
	default:
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
}

func (d *Diagnostic) Error() string { return d.Message }

func (d *Diagnostic) Unwrap() error { return d.Err }

func undefinedVariable(name string, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    UndefinedVariable,
		Line:    line,
		Message: fmt.Sprintf("Undefined variable '%v' at line %v", name, line),
	}
}

func operandMismatch(left, right types.Kind, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    TypeMismatch,
		Line:    line,
		Message: fmt.Sprintf("Type Mismatch: '%v' and '%v' at line %v", left, right, line),
	}
}

func rebound(name string, was, now types.Kind, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    TypeMismatch,
		Line:    line,
		Message: fmt.Sprintf("Type Error: Variable '%v' was '%v', now '%v' at line %v", name, was, now, line),
	}
}

func regexArgument(role string, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    RegexArgument,
		Line:    line,
		Message: fmt.Sprintf("Type Error: regex %v argument must be '%v' at line %v", role, types.String, line),
	}
}

func regexArity(fn string, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    RegexArgument,
		Line:    line,
		Message: fmt.Sprintf("Type Error: regex function '%v' expects at least 2 arguments at line %v", fn, line),
	}
}

func syntaxFailure(err error, line int64) *Diagnostic {
	return &Diagnostic{
		Kind:    SyntaxFailure,
		Line:    line,
		Message: fmt.Sprintf("Syntax Error: %v", err),
		Err:     err,
	}
}
