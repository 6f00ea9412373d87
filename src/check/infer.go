package check

import (
	"github.com/tanema/luafcheck/src/parse"
	"github.com/tanema/luafcheck/src/types"
)

// Infer works out the kind of an expression from its shape and the symbols
// bound so far. It never changes symbols. A name that is not bound or a binary
// operation over two different kinds fails with a *Diagnostic. Anything it
// cannot resolve is types.Unknown, which never conflicts with anything.
func Infer(expr parse.Expr, symbols map[string]types.Kind) (types.Kind, error) {
	switch e := expr.(type) {
	case *parse.Integer:
		return types.Int, nil
	case *parse.Float:
		return types.Float, nil
	case *parse.String:
		return types.String, nil
	case *parse.Bool:
		return types.Bool, nil
	case *parse.Name:
		if kind, bound := symbols[e.Ident]; bound {
			return kind, nil
		}
		return types.Unknown, undefinedVariable(e.Ident, e.Line)
	case *parse.BinaryOp:
		return inferBinary(e, symbols)
	case *parse.Call:
		return inferCall(e), nil
	default:
		return types.Unknown, nil
	}
}

// every operator is treated alike, both sides must agree and the result is
// the side's kind.
func inferBinary(op *parse.BinaryOp, symbols map[string]types.Kind) (types.Kind, error) {
	left, err := Infer(op.Left, symbols)
	if err != nil {
		return types.Unknown, err
	}
	right, err := Infer(op.Right, symbols)
	if err != nil {
		return types.Unknown, err
	} else if !types.Comparable(left, right) {
		return types.Unknown, nil
	} else if left != right {
		return types.Unknown, operandMismatch(left, right, op.Line)
	}
	return left, nil
}

// casts like int("1") or string(12) have the kind they are named after.
func inferCall(call *parse.Call) types.Kind {
	if call.Method != "" {
		return types.Unknown
	}
	if name, isName := call.Fn.(*parse.Name); isName {
		if kind, isCast := types.ByName(name.Ident); isCast {
			return kind
		}
	}
	return types.Unknown
}
