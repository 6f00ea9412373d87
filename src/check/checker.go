// Package check is a static type checker for lua source. It infers the kind of
// each assigned value, keeps the first kind a name was bound to and reports
// rebinding to another kind, binary operations over two kinds, undefined names
// and regex calls whose pattern or subject is not a string.
//
// There is a single symbol table for the whole chunk. Blocks, branches and
// function bodies do not open scopes, and parameters and loop variables are
// never bound, so reading one before assigning it is reported as undefined.
package check

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tanema/luafcheck/src/lerrors"
	"github.com/tanema/luafcheck/src/parse"
	"github.com/tanema/luafcheck/src/types"
)

type checker struct {
	symbols     map[string]types.Kind
	diagnostics []*Diagnostic
	warnings    []string
}

// Check parses and checks a source string.
func Check(src string) Result {
	return CheckReader("<string>", strings.NewReader(src))
}

// CheckReader parses and checks the source read from src. Source that does not
// parse is never walked.
func CheckReader(filename string, src io.Reader) Result {
	chunk, err := parse.Parse(filename, src)
	if err != nil {
		return unparsable(err, errorLine(err))
	}
	return CheckChunk(chunk)
}

// CheckChunk checks an already parsed chunk with a fresh symbol table.
func CheckChunk(chunk *parse.Chunk) Result {
	c := &checker{symbols: map[string]types.Kind{}}
	c.block(chunk.Body)
	return newResult(c.diagnostics, c.warnings)
}

func errorLine(err error) int64 {
	var luaErr *lerrors.Error
	if errors.As(err, &luaErr) {
		return luaErr.Line
	}
	return 0
}

func (c *checker) report(diag *Diagnostic) {
	c.diagnostics = append(c.diagnostics, diag)
}

// fail records an inference failure as a diagnostic.
func (c *checker) fail(err error) {
	var diag *Diagnostic
	if errors.As(err, &diag) {
		c.report(diag)
		return
	}
	c.report(&Diagnostic{Kind: TypeMismatch, Message: err.Error()})
}

func (c *checker) block(stmts []parse.Stmt) {
	for _, stmt := range stmts {
		c.stmt(stmt)
	}
}

func (c *checker) stmt(stmt parse.Stmt) {
	switch s := stmt.(type) {
	case *parse.Assign:
		c.assign(s)
	case *parse.FuncDef:
		c.block(s.Func.Body)
	case *parse.CallStmt:
		c.call(s.Call)
	case *parse.If:
		c.expr(s.Cond)
		c.block(s.Then)
		c.block(s.Else)
	case *parse.NumericFor:
		c.exprs(s.Start, s.Limit, s.Step)
		c.block(s.Body)
	case *parse.GenericFor:
		c.exprs(s.Exprs...)
		c.block(s.Body)
	case *parse.While:
		c.expr(s.Cond)
		c.block(s.Body)
	case *parse.Repeat:
		c.block(s.Body)
		c.expr(s.Cond)
	case *parse.Do:
		c.block(s.Body)
	case *parse.Return:
		c.exprs(s.Exprs...)
	case *parse.Break, *parse.Goto, *parse.Label:
	default:
		panic(fmt.Sprintf("unknown statement type %T", stmt))
	}
}

// assign binds a single plain name to the kind of its first value. Other
// forms of assignment bind nothing but their targets and values are still
// walked for calls.
func (c *checker) assign(stmt *parse.Assign) {
	if len(stmt.Targets) == 1 && len(stmt.Values) > 0 {
		if name, isName := stmt.Targets[0].(*parse.Name); isName {
			c.bind(name.Ident, stmt.Values[0], stmt.Line)
		}
	}
	c.exprs(stmt.Targets...)
	c.exprs(stmt.Values...)
}

// bind keeps the first kind a name was bound to.
func (c *checker) bind(name string, value parse.Expr, line int64) {
	kind, err := Infer(value, c.symbols)
	if err != nil {
		c.fail(err)
		return
	}
	prev, bound := c.symbols[name]
	if !bound {
		c.symbols[name] = kind
	} else if types.Conflict(prev, kind) {
		c.report(rebound(name, prev, kind, line))
	}
}

func (c *checker) exprs(exprs ...parse.Expr) {
	for _, expr := range exprs {
		c.expr(expr)
	}
}

// expr only looks for calls, including the ones inside function literals.
// Mismatches in expressions outside of an assignment are not reported.
func (c *checker) expr(expr parse.Expr) {
	switch e := expr.(type) {
	case nil:
	case *parse.Call:
		c.call(e)
	case *parse.Function:
		c.block(e.Body)
	case *parse.Index:
		c.expr(e.Table)
		c.expr(e.Key)
	case *parse.BinaryOp:
		c.expr(e.Left)
		c.expr(e.Right)
	case *parse.UnaryOp:
		c.expr(e.Operand)
	case *parse.Table:
		for _, field := range e.Fields {
			c.expr(field.Key)
			c.expr(field.Val)
		}
	case *parse.Nil, *parse.Bool, *parse.Integer, *parse.Float, *parse.String, *parse.VarArgs, *parse.Name:
	default:
		panic(fmt.Sprintf("unknown expression type %T", expr))
	}
}

func (c *checker) call(call *parse.Call) {
	if fn, isRegex := regexCall(call); isRegex {
		c.regexArgs(fn, call)
	}
	c.expr(call.Fn)
	c.exprs(call.Args...)
}

func (c *checker) regexArgs(fn string, call *parse.Call) {
	if len(call.Args) < 2 {
		c.report(regexArity(fn, call.Line))
		return
	}
	c.regexArg("pattern", call.Args[0], call.Line)
	c.regexArg("match", call.Args[1], call.Line)
}

// regexArg requires a string. When the argument cannot be inferred at all the
// inference failure is reported in its place.
func (c *checker) regexArg(role string, arg parse.Expr, line int64) {
	kind, err := Infer(arg, c.symbols)
	if err != nil {
		c.fail(err)
	} else if kind != types.String {
		c.report(regexArgument(role, line))
	}
}
