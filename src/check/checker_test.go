package check

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/luafcheck/src/lerrors"
)

type checkTest struct {
	name     string
	src      string
	expected []string
}

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []checkTest{
		{"distinct bindings", "x = 1\ny = \"s\"\nz = 1.5\nb = true\nlocal w = x + 2", nil},
		{"same kind again", "x = 1\nx = 2\nx = x * 3", nil},
		{"rebind", "x = \"s\"\nx = 1", []string{
			"Type Error: Variable 'x' was 'string', now 'int' at line 2",
		}},
		{"first kind wins", "x = \"s\"\nx = 1\ny = x + 1", []string{
			"Type Error: Variable 'x' was 'string', now 'int' at line 2",
			"Type Mismatch: 'string' and 'int' at line 3",
		}},
		{"int and float differ", "x = 1\nx = 1.5", []string{
			"Type Error: Variable 'x' was 'int', now 'float' at line 2",
		}},
		{"local binds", "local x = true\nx = \"s\"", []string{
			"Type Error: Variable 'x' was 'bool', now 'string' at line 2",
		}},
		{"declaration binds nothing", "local x\nx = 1\nx = \"s\"", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 3",
		}},
		{"undefined", "y = x", []string{"Undefined variable 'x' at line 1"}},
		{"undefined leaves name unbound", "y = x\nz = y", []string{
			"Undefined variable 'x' at line 1",
			"Undefined variable 'y' at line 2",
		}},
		{"binary mismatch", "a = 1 + \"s\"", []string{"Type Mismatch: 'int' and 'string' at line 1"}},
		{"mismatch leaves name unbound", "a = 1 + \"s\"\nb = a", []string{
			"Type Mismatch: 'int' and 'string' at line 1",
			"Undefined variable 'a' at line 2",
		}},
		{"nested mismatch", "a = \"x\" .. (1 + 2)", []string{"Type Mismatch: 'string' and 'int' at line 1"}},
		{"comparison is not special", "a = 1 < 2\na = true", []string{
			"Type Error: Variable 'a' was 'int', now 'bool' at line 2",
		}},
		{"unknown suppresses", "x = {}\nx = 1\ny = f() + 1\nz = nil .. \"s\"", nil},
		{"casts", "x = int(\"3\")\nx = \"s\"\ns = string(1) .. \"a\"", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 2",
		}},
		{"multiple targets ignored", "a, b = 1, 2\na = \"s\"\nb = true", nil},
		{"index target ignored", "t.x = 1\nt[1] = \"s\"", nil},
		{"mismatch outside assignment ignored", "print(1 + \"s\")\nif 1 == \"a\" then end", nil},
		{"branches share the table", "if c then\n  x = 1\nelse\n  x = \"s\"\nend", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 4",
		}},
		{"elseif shares the table", "if a then\n  x = 1\nelseif b then\n  x = 1.5\nend", []string{
			"Type Error: Variable 'x' was 'int', now 'float' at line 4",
		}},
		{"loop body binds after loop", "for i = 1, 3 do\n  x = 1\nend\ny = x + 1", nil},
		{"loop variables are not bound", "for i = 1, 3 do\n  x = i\nend\nfor k, v in pairs(t) do\n  y = v\nend", []string{
			"Undefined variable 'i' at line 2",
			"Undefined variable 'v' at line 5",
		}},
		{"while and repeat bodies", "while c do\n  x = 1\nend\nrepeat\n  x = \"s\"\nuntil d", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 5",
		}},
		{"do block", "do\n  local x = 1\nend\nx = \"s\"", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 4",
		}},
		{"parameters are not bound", "function f(a)\n  b = a\nend", []string{"Undefined variable 'a' at line 2"}},
		{"function bodies are inlined", "function t.m()\n  x = 1\nend\nlocal function g()\n  x = \"s\"\nend", []string{
			"Type Error: Variable 'x' was 'int', now 'string' at line 5",
		}},
		{"function literals are inlined", "f = function()\n  x = 1\nend\ng = {h = function() x = true end}", []string{
			"Type Error: Variable 'x' was 'int', now 'bool' at line 4",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			res := Check(test.src)
			assertLines(t, test.expected, res)
		})
	}
}

func TestCheckRegex(t *testing.T) {
	t.Parallel()
	tests := []checkTest{
		{"strings", "p = \"a+\"\nre.match(p, \"aaa\")\nm = re.search(\"b\", p)", nil},
		{"pattern", `re.match(123, "text")`, []string{"Type Error: regex pattern argument must be 'string' at line 1"}},
		{"subject", `re.fullmatch("a", 1.5)`, []string{"Type Error: regex match argument must be 'string' at line 1"}},
		{"both", `re.findall(true, 2)`, []string{
			"Type Error: regex pattern argument must be 'string' at line 1",
			"Type Error: regex match argument must be 'string' at line 1",
		}},
		{"arity", `re.match("p")`, []string{"Type Error: regex function 'match' expects at least 2 arguments at line 1"}},
		{"no arguments", `re.finditer()`, []string{"Type Error: regex function 'finditer' expects at least 2 arguments at line 1"}},
		{"extra arguments are fine", `re.search("a", "b", 3)`, nil},
		{"unknown is not a string", `re.match(f(), "s")`, []string{"Type Error: regex pattern argument must be 'string' at line 1"}},
		{"cast is a string", `re.match(string(1), "s")`, nil},
		{"undefined argument", `re.match(p, "s")`, []string{"Undefined variable 'p' at line 1"}},
		{"mismatched argument", `re.match("a" .. 1, "s")`, []string{"Type Mismatch: 'string' and 'int' at line 1"}},
		{"other functions", `re.compile(1)`, nil},
		{"other modules", `string.match(1, 2)`, nil},
		{"method call", `re:match(1)`, nil},
		{"nested call argument", `print(re.match(1, "s"))`, []string{"Type Error: regex pattern argument must be 'string' at line 1"}},
		{"nested regex", `re.match(re.match(1), "s")`, []string{
			"Type Error: regex pattern argument must be 'string' at line 1",
			"Type Error: regex function 'match' expects at least 2 arguments at line 1",
		}},
		{"after assignment diagnostic", "y = z .. re.match(1, \"s\")", []string{
			"Undefined variable 'z' at line 1",
			"Type Error: regex pattern argument must be 'string' at line 1",
		}},
		{"multiple targets still walked", "a, b = re.match(\"a\"), 1", []string{
			"Type Error: regex function 'match' expects at least 2 arguments at line 1",
		}},
		{"everywhere", strings.Join([]string{
			`if re.match(1, "s") then`,
			`  re.match(2, "s")`,
			`elseif c then`,
			`  re.match(3, "s")`,
			`else`,
			`  re.match(4, "s")`,
			`end`,
			`for i = re.match(5, "s"), 2 do re.match(6, "s") end`,
			`for k in re.finditer(7, "s") do end`,
			`while re.match(8, "s") do end`,
			`repeat until re.match(9, "s")`,
			`function f() return re.match(10, "s") end`,
			`t = {re.match(11, "s"), k = function() re.match(12, "s") end}`,
			`t[re.match(13, "s")] = -re.match(14, "s")`,
		}, "\n"), []string{
			"Type Error: regex pattern argument must be 'string' at line 1",
			"Type Error: regex pattern argument must be 'string' at line 2",
			"Type Error: regex pattern argument must be 'string' at line 4",
			"Type Error: regex pattern argument must be 'string' at line 6",
			"Type Error: regex pattern argument must be 'string' at line 8",
			"Type Error: regex pattern argument must be 'string' at line 8",
			"Type Error: regex pattern argument must be 'string' at line 9",
			"Type Error: regex pattern argument must be 'string' at line 10",
			"Type Error: regex pattern argument must be 'string' at line 11",
			"Type Error: regex pattern argument must be 'string' at line 12",
			"Type Error: regex pattern argument must be 'string' at line 13",
			"Type Error: regex pattern argument must be 'string' at line 13",
			"Type Error: regex pattern argument must be 'string' at line 14",
			"Type Error: regex pattern argument must be 'string' at line 14",
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assertLines(t, test.expected, Check(test.src))
		})
	}
}

func TestCheckDiagnosticKinds(t *testing.T) {
	t.Parallel()
	res := Check("x = \"s\"\nx = 1\ny = z\na = 1 + true\nre.match(1, \"s\")")
	require.Equal(t, HasErrors, res.Status())
	kinds := []DiagnosticKind{}
	lines := []int64{}
	for _, diag := range res.Diagnostics() {
		kinds = append(kinds, diag.Kind)
		lines = append(lines, diag.Line)
	}
	assert.Equal(t, []DiagnosticKind{TypeMismatch, UndefinedVariable, TypeMismatch, RegexArgument}, kinds)
	assert.Equal(t, []int64{2, 3, 4, 5}, lines)
	assert.NoError(t, res.SyntaxError())
}

func TestCheckSyntaxFailure(t *testing.T) {
	t.Parallel()
	res := Check("x = \"s\"\nx = 1\ny = (1 + 2")
	assert.Equal(t, Unparsable, res.Status())
	assert.False(t, res.OK())
	assert.Empty(t, res.Diagnostics())
	assert.True(t, res.Incomplete())
	assert.True(t, strings.HasPrefix(res.String(), "Syntax Error: Parse Error: <string>:3:"), res.String())

	err := res.SyntaxError()
	var diag *Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, SyntaxFailure, diag.Kind)
	assert.Equal(t, int64(3), diag.Line)
	var luaErr *lerrors.Error
	require.ErrorAs(t, err, &luaErr)
	assert.Equal(t, lerrors.ParserErr, luaErr.Kind)

	res = Check("x = = 1")
	assert.Equal(t, Unparsable, res.Status())
	assert.False(t, res.Incomplete())
	assert.Equal(t, []string{"Syntax Error: Parse Error: <string>:1:5 unexpected symbol near '='"}, res.Lines())
}

func TestCheckReader(t *testing.T) {
	t.Parallel()
	res := CheckReader("main.lua", strings.NewReader("x = )"))
	assert.Contains(t, res.String(), "main.lua:1:")
}

func TestCheckIdempotent(t *testing.T) {
	t.Parallel()
	srcs := []string{
		"x = \"s\"\nx = 1\ny = z\nre.match(1)",
		"x = 1\ny = x + 2",
		"x = (",
	}
	for _, src := range srcs {
		assert.Equal(t, Check(src), Check(src), src)
	}
}

func TestCheckConcurrent(t *testing.T) {
	t.Parallel()
	src := "x = \"s\"\nx = 1\ny = z\na = 1 + \"s\"\nre.match(1, \"s\")"
	expected := Check(src)
	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every other run binds names the shared source uses, a shared
			// table would leak them into the other runs.
			if i%2 == 0 {
				results[i] = Check(src)
			} else {
				results[i] = Check(fmt.Sprintf("z = %v\nx = 1", i))
			}
		}(i)
	}
	wg.Wait()
	for i, res := range results {
		if i%2 == 0 {
			assert.Equal(t, expected, res)
		} else {
			assert.True(t, res.OK())
		}
	}
}

func assertLines(t *testing.T, expected []string, res Result) {
	t.Helper()
	if len(expected) == 0 {
		assert.Equal(t, Clean, res.Status(), res.String())
		assert.Equal(t, CleanMessage, res.String())
		return
	}
	assert.Equal(t, HasErrors, res.Status())
	assert.Equal(t, expected, res.Lines())
	assert.Equal(t, strings.Join(expected, "\n"), res.String())
}
