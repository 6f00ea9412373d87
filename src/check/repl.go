package check

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

const (
	prompt     = "> "
	morePrompt = "...> "
)

type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// REPL starts an interactive prompt that checks each chunk entered against the
// session and writes the result to out.
func (s *Session) REPL(out io.Writer) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()
	return s.repl(rl, out)
}

func (s *Session) repl(rl lineReader, out io.Writer) error {
	buf := bytes.NewBuffer(nil)
	for {
		src, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if buf.Len() > 0 {
					rl.SetPrompt(prompt)
					buf.Reset()
					fmt.Fprint(out, "Press ctrl-c again to quit.\n")
					continue
				}
				return nil
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if _, err := buf.WriteString(src + "\n"); err != nil {
			return err
		}

		res := s.Eval(buf.String())
		if res.Incomplete() {
			rl.SetPrompt(morePrompt)
			continue
		}
		rl.SetPrompt(prompt)
		buf.Reset()
		if _, err := fmt.Fprintln(out, res); err != nil {
			return err
		}
	}
}
