package luafcheck

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tanema/luafcheck/src/check"
	"github.com/tanema/luafcheck/src/conf"
	"github.com/tanema/luafcheck/src/lerrors"
	"github.com/tanema/luafcheck/src/runtime"
)

// OutputHeader is the result text of a language that is not checked.
const OutputHeader = "--- Code Output ---"

// StatusUnchecked is the status of a report in a language that is not checked.
const StatusUnchecked = "unchecked"

type (
	// Executor runs source in a configured language. *runtime.Runner is the
	// implementation used outside of tests.
	Executor interface {
		Run(ctx context.Context, language, src string) (string, error)
	}
	// Pipeline checks source and then hands clean source to its Executor.
	Pipeline struct {
		Config   *conf.Config
		Executor Executor
	}
	// Report is what one pass through a Pipeline produced. Result is only set
	// when Checked is true.
	Report struct {
		Language string
		Checked  bool
		Result   check.Result
		Ran      bool
		Output   string
	}
)

// Check type checks lua source.
func Check(src string) check.Result {
	return check.Check(src)
}

// CheckFile type checks the lua file at path.
func CheckFile(path string) (check.Result, error) {
	src, err := os.Open(path)
	if err != nil {
		return check.Result{}, err
	}
	defer func() { _ = src.Close() }()
	return check.CheckReader(path, src), nil
}

// New creates a pipeline that executes with a runtime.Runner over cfg, or over
// the default config if cfg is nil.
func New(cfg *conf.Config) *Pipeline {
	if cfg == nil {
		cfg = conf.Default()
	}
	return &Pipeline{Config: cfg, Executor: runtime.New(cfg)}
}

// Run checks src when language is a checked language. If execute is set, src
// is then run when the check is clean or the language is not checked. The
// error is the execution error, the check result is never an error.
func (p *Pipeline) Run(ctx context.Context, language, filename, src string, execute bool) (Report, error) {
	if language == "" {
		language = p.Config.DefaultLanguage
	}
	report := Report{Language: language}
	lang, ok := p.Config.Language(language)
	if !ok {
		return report, &lerrors.Error{Kind: lerrors.RuntimeErr, Err: fmt.Errorf("unsupported language %q", language)}
	}
	if lang.Checked {
		report.Checked = true
		report.Result = check.CheckReader(filename, strings.NewReader(src))
		if !strings.HasPrefix(report.Result.String(), check.CleanPrefix) {
			return report, nil
		}
	}
	if !execute {
		return report, nil
	}
	report.Ran = true
	output, err := p.Executor.Run(ctx, language, src)
	report.Output = output
	return report, err
}

// Text is the check result text, or OutputHeader for an unchecked language.
func (r Report) Text() string {
	if !r.Checked {
		return OutputHeader
	}
	return r.Result.String()
}

// Status names the check status, or StatusUnchecked.
func (r Report) Status() string {
	if !r.Checked {
		return StatusUnchecked
	}
	return r.Result.Status().String()
}

// OK is true when nothing stops the source from running.
func (r Report) OK() bool {
	return !r.Checked || r.Result.OK()
}
