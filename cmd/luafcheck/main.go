// Package main is the entrypoint to the luafcheck command
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/tanema/luafcheck"
	"github.com/tanema/luafcheck/src/check"
	"github.com/tanema/luafcheck/src/conf"
	"github.com/tanema/luafcheck/src/playground"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"
)

var (
	pipeline    *luafcheck.Pipeline
	colorize    bool
	failed      bool
	showVersion bool
	executeStat string
	execute     bool
	interactive bool
	language    string
	configPath  string
	serveAddr   string
	colorMode   string
)

func init() {
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.StringVar(&executeStat, "e", "", "check string 'stat'")
	flag.BoolVar(&execute, "x", false, "execute the source when the check is clean")
	flag.BoolVar(&interactive, "i", false, "enter interactive mode after checking scripts")
	flag.StringVar(&language, "lang", "", "language of the source, defaults to the configured default_language")
	flag.StringVar(&configPath, "c", "", "load yaml config from `file`")
	flag.StringVar(&serveAddr, "serve", "", "serve the playground on `addr`")
	flag.StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
}

func main() {
	flag.Usage = printUsage
	flag.Parse()

	cfg := conf.Default()
	if configPath != "" {
		var err error
		cfg, err = conf.Load(configPath)
		checkErr(err)
	}
	var err error
	colorize, err = useColor(colorMode, os.Stdout)
	checkErr(err)
	pipeline = luafcheck.New(cfg)

	if showVersion {
		printVersion()
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
		serve(cfg)
		return
	}

	args := flag.Args()
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(io.LimitReader(os.Stdin, conf.MAXSOURCESIZE))
		checkErr(err)
		checkSrc("<stdin>", string(data))
	} else if executeStat != "" {
		checkSrc("<string>", executeStat)
	} else if len(args) == 0 && !showVersion {
		runREPL()
	} else if len(args) > 0 {
		for _, path := range args {
			data, err := os.ReadFile(path)
			checkErr(err)
			checkSrc(path, string(data))
		}
	}
	if interactive {
		runREPL()
	}
	if failed {
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: luafcheck [options] [script...]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func checkSrc(path, src string) {
	report, err := pipeline.Run(context.Background(), language, path, src, execute)
	if report.Checked {
		fmt.Fprintln(os.Stdout, paint(report.Result, colorize))
	}
	if report.Ran {
		fmt.Fprint(os.Stdout, report.Output)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		failed = true
	}
	if !report.OK() {
		failed = true
	}
}

func runREPL() {
	printVersion()
	fmt.Fprint(os.Stderr, "Press ctrl-c to quit or clear current buffer.\n")
	checkErr(check.NewSession("<stdin>").REPL(os.Stdout))
}

func serve(cfg *conf.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := playground.New(cfg, pipeline.Executor, nil).ListenAndServe(ctx)
	if !errors.Is(err, http.ErrServerClosed) {
		checkErr(err)
	}
}

func useColor(mode string, out *os.File) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		fd := out.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), nil
	default:
		return false, fmt.Errorf("invalid -color %q, expected auto, always or never", mode)
	}
}

func paint(res check.Result, color bool) string {
	text := res.String()
	if !color {
		return text
	}
	code := colorRed
	if res.OK() {
		code = colorGreen
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = code + line + colorReset
		}
	}
	return strings.Join(lines, "\n")
}
