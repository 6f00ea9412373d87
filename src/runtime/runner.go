// Package runtime runs source through an external interpreter or compiler and
// captures what it writes to stdout. Which program runs each language is
// configured in conf.Config.
package runtime

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tanema/luafcheck/src/conf"
	"github.com/tanema/luafcheck/src/lerrors"
)

//go:embed prelude.lua
var preludeSrc string

// Prelude is prepended to checked lua source before it runs. It defines the re
// module and the int, float, bool and string conversions that the checker
// understands. It is a single line so that line numbers in errors still match
// the source that was checked.
var Prelude = strings.Join(strings.Fields(preludeSrc), " ")

// Runner executes source with the commands from its config.
type Runner struct {
	Config *conf.Config
}

type limitedBuffer struct {
	bytes.Buffer
	limit int
}

// New creates a runner, with the default config if cfg is nil.
func New(cfg *conf.Config) *Runner {
	if cfg == nil {
		cfg = conf.Default()
	}
	return &Runner{Config: cfg}
}

// Run writes src to a temporary directory, runs the command configured for
// language within the configured timeout and returns its stdout. A command
// that exits with a failure is an lerrors.ExecErr, and everything else that
// stops it from running, including the timeout, is an lerrors.RuntimeErr. The
// output captured up to a failure is returned along with the error.
func (r *Runner) Run(ctx context.Context, language, src string) (string, error) {
	lang, ok := r.Config.Language(language)
	if !ok {
		return "", runtimeErr(fmt.Errorf("unsupported language %q", language))
	}

	dir, err := os.MkdirTemp("", conf.APPNAME+"-*")
	if err != nil {
		return "", runtimeErr(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	if lang.Checked {
		src = WithPrelude(src)
	}
	path := filepath.Join(dir, lang.SourceName())
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		return "", runtimeErr(err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Config.Timeout)
	defer cancel()

	args := lang.Args(path, dir)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	stdout := &limitedBuffer{limit: conf.MAXOUTPUTSIZE}
	stderr := &limitedBuffer{limit: conf.MAXOUTPUTSIZE}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return stdout.String(), runtimeErr(fmt.Errorf("timed out after %v: %w", r.Config.Timeout, ctxErr))
		}
		return stdout.String(), runtimeErr(ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &lerrors.Error{
			Kind: lerrors.ExecErr,
			Err:  execFailure{exitErr: exitErr, stderr: strings.TrimSpace(stderr.String())},
		}
	} else if err != nil {
		return stdout.String(), runtimeErr(err)
	}
	return stdout.String(), nil
}

// WithPrelude puts Prelude in front of the first line of src. A shebang line
// is turned into a comment so the prelude still runs.
func WithPrelude(src string) string {
	if strings.HasPrefix(src, "#") {
		src = "--" + src
	}
	return Prelude + " " + src
}

func runtimeErr(err error) error {
	return &lerrors.Error{Kind: lerrors.RuntimeErr, Err: err}
}

type execFailure struct {
	exitErr *exec.ExitError
	stderr  string
}

func (e execFailure) Error() string {
	if e.stderr == "" {
		return e.exitErr.Error()
	}
	return fmt.Sprintf("%v\n%v", e.exitErr, e.stderr)
}

func (e execFailure) Unwrap() error { return e.exitErr }

// Write keeps at most limit bytes and drops the rest without failing the
// command.
func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		if len(p) > room {
			_, _ = b.Buffer.Write(p[:room])
		} else {
			_, _ = b.Buffer.Write(p)
		}
	}
	return len(p), nil
}
