package check

import (
	"github.com/tanema/luafcheck/src/parse"
)

// RegexModule is the global name the regex functions live under.
const RegexModule = "re"

// RegexFunctions are the functions of RegexModule that take a pattern and a
// subject as their first two arguments.
var RegexFunctions = map[string]bool{
	"match":     true,
	"search":    true,
	"fullmatch": true,
	"findall":   true,
	"finditer":  true,
}

// regexCall reports if call is re.<fn>(...) with fn one of RegexFunctions,
// and returns fn. Method calls like re:match() and calls on anything other
// than the bare module name are not regex calls.
func regexCall(call *parse.Call) (string, bool) {
	if call.Method != "" {
		return "", false
	}
	idx, isIndex := call.Fn.(*parse.Index)
	if !isIndex {
		return "", false
	}
	module, isName := idx.Table.(*parse.Name)
	if !isName || module.Ident != RegexModule {
		return "", false
	}
	fn, isString := idx.Key.(*parse.String)
	if !isString || !RegexFunctions[fn.Val] {
		return "", false
	}
	return fn.Val, true
}
