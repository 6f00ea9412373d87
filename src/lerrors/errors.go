// Package lerrors are a unified errors package for lua parsing and execution so
// that they can be formatted in a unified way and handled in a unified way.
package lerrors

import (
	"fmt"
)

type (
	// ErrorKind is an enum to describe where the error originates from.
	ErrorKind int
	// Error captures every failure that can end a run, before or after checking.
	// It distinguishes between lexer, parser and execution errors and will
	// format them accordingly.
	Error struct {
		Line     int64
		Column   int64
		Kind     ErrorKind
		Err      error
		Filename string
	}
)

const (
	// RuntimeErr is an error from the execution backend itself, it could not be
	// started, timed out or the language is not configured.
	RuntimeErr ErrorKind = iota
	// ParserErr is an error that originates from the parser.
	ParserErr
	// LexerErr is an error that originates from the lexer.
	LexerErr
	// ExecErr is a compilation or process failure of the executed source.
	ExecErr
)

func (err *Error) Error() string {
	switch err.Kind {
	case RuntimeErr:
		return fmt.Sprintf("Runtime Error: %v", err.Err)
	case ExecErr:
		return fmt.Sprintf("Compilation/Execution Error: %v", err.Err)
	case ParserErr:
		return fmt.Sprintf(`Parse Error: %s:%v:%v %v`, err.Filename, err.Line, err.Column, err.Err)
	case LexerErr:
		return fmt.Sprintf("Lex Error: %s:%v:%v %v", err.Filename, err.Line, err.Column, err.Err)
	default:
		return err.Err.Error()
	}
}

func (err *Error) Unwrap() error { return err.Err }

// Syntax reports if the error came out of the lexer or the parser.
func (err *Error) Syntax() bool {
	return err.Kind == ParserErr || err.Kind == LexerErr
}
