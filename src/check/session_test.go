package check

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReadline struct {
	inputs  []any
	prompts []string
}

func (rl *fakeReadline) Readline() (string, error) {
	if len(rl.inputs) == 0 {
		return "", io.EOF
	}
	input := rl.inputs[0]
	rl.inputs = rl.inputs[1:]
	if err, isErr := input.(error); isErr {
		return "", err
	}
	return input.(string), nil
}

func (rl *fakeReadline) SetPrompt(prompt string) {
	rl.prompts = append(rl.prompts, prompt)
}

func TestSessionEval(t *testing.T) {
	t.Parallel()
	session := NewSession("<repl>")

	assert.True(t, session.Eval("x = 1").OK())
	res := session.Eval(`x = "s"`)
	assert.Equal(t, []string{"Type Error: Variable 'x' was 'int', now 'string' at line 2"}, res.Lines())
	assert.True(t, session.Eval("y = x + 1\nz = y").OK())

	res = session.Eval("w = q")
	assert.Equal(t, []string{"Undefined variable 'q' at line 4"}, res.Lines())
	assert.Equal(t, "x = 1\ny = x + 1\nz = y\n", session.Source())

	res = session.Eval("if x then")
	assert.True(t, res.Incomplete())
	res = session.Eval("if x then\n  re.match(1, \"s\")\nend")
	assert.Equal(t, []string{"Type Error: regex pattern argument must be 'string' at line 5"}, res.Lines())

	res = session.Eval("x = = 1")
	assert.Equal(t, Unparsable, res.Status())
	assert.False(t, res.Incomplete())

	session.Reset()
	assert.Empty(t, session.Source())
	assert.True(t, session.Eval(`x = "s"`).OK())
}

func TestSessionREPL(t *testing.T) {
	t.Parallel()
	session := NewSession("<repl>")
	rl := &fakeReadline{inputs: []any{
		"x = 1",
		"if x then",
		"  y = 2",
		"end",
		`x = "s"`,
		"z = (",
		readline.ErrInterrupt,
		"z = y",
	}}
	var out bytes.Buffer
	require.NoError(t, session.repl(rl, &out))
	assert.Equal(t, "No type errors found.\n"+
		"No type errors found.\n"+
		"Type Error: Variable 'x' was 'int', now 'string' at line 5\n"+
		"Press ctrl-c again to quit.\n"+
		"No type errors found.\n", out.String())
	assert.Equal(t, []string{"> ", "...> ", "...> ", "> ", "> ", "...> ", "> ", "> "}, rl.prompts)
	assert.Equal(t, "x = 1\nif x then\n  y = 2\nend\nz = y\n", session.Source())
}

func TestSessionREPLQuit(t *testing.T) {
	t.Parallel()
	rl := &fakeReadline{inputs: []any{readline.ErrInterrupt, "x = 1"}}
	var out bytes.Buffer
	require.NoError(t, NewSession("<repl>").repl(rl, &out))
	assert.Empty(t, out.String())

	readErr := errors.New("broken terminal")
	rl = &fakeReadline{inputs: []any{readErr}}
	require.ErrorIs(t, NewSession("<repl>").repl(rl, &out), readErr)
}
