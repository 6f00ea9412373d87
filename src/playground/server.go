// Package playground serves a small web page and a JSON endpoint for checking
// and running source, the same flow the cli runs with -x.
package playground

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tanema/luafcheck"
	"github.com/tanema/luafcheck/src/conf"
)

//go:embed index.html
var indexSrc string

var indexTmpl = template.Must(template.New("index").Parse(indexSrc))

type (
	// Server holds everything a request needs. It keeps no state between
	// requests, every check gets its own checker.
	Server struct {
		config   *conf.Config
		pipeline *luafcheck.Pipeline
		logger   *log.Logger
		now    func() time.Time
	}
	// Outcome is what a single check and run produced.
	Outcome struct {
		ID          string       `json:"id"`
		Language    string       `json:"language"`
		Code        string       `json:"-"`
		Result      string       `json:"result"`
		Status      string       `json:"status"`
		Diagnostics []Diagnostic `json:"diagnostics"`
		Output      string       `json:"output"`
		CheckedAt   string       `json:"checked_at"`
	}
	// Diagnostic is the json form of a check.Diagnostic.
	Diagnostic struct {
		Kind    string `json:"kind"`
		Line    int64  `json:"line"`
		Message string `json:"message"`
	}
	checkRequest struct {
		Code     string `json:"code"`
		Language string `json:"language"`
		Run      bool   `json:"run"`
	}
	languageOption struct {
		Tag      string
		Label    string
		Selected bool
	}
	page struct {
		Title     string
		Languages []languageOption
		Outcome   Outcome
	}
)

// New creates a server. A nil exec runs source with a runtime.Runner over cfg
// and a nil logger logs to stderr.
func New(cfg *conf.Config, exec luafcheck.Executor, logger *log.Logger) *Server {
	pipeline := luafcheck.New(cfg)
	if exec != nil {
		pipeline.Executor = exec
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{config: pipeline.Config, pipeline: pipeline, logger: logger, now: time.Now}
}

// Handler routes the page and the api.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("POST /{$}", s.submit)
	mux.HandleFunc("POST /api/check", s.api)
	return mux
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- server.ListenAndServe() }()
	s.logger.Printf("playground listening on %v", s.config.Addr)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// Evaluate checks code when its language is checked and runs it when run is
// set and the check came back clean. Languages that are not checked always
// run when run is set. A failed run is reported as its error text in place of
// the output.
func (s *Server) Evaluate(ctx context.Context, language, code string, run bool) Outcome {
	start := s.now()
	report, err := s.pipeline.Run(ctx, language, "<playground>", code, run)
	out := Outcome{
		ID:          uuid.NewString(),
		Language:    report.Language,
		Code:        code,
		Result:      report.Text(),
		Status:      report.Status(),
		Diagnostics: []Diagnostic{},
		Output:      report.Output,
		CheckedAt:   s.config.Stamp(start),
	}
	if report.Checked {
		for _, diag := range report.Result.Diagnostics() {
			out.Diagnostics = append(out.Diagnostics, Diagnostic{Kind: diag.Kind.String(), Line: diag.Line, Message: diag.Message})
		}
	}
	if err != nil {
		out.Output = err.Error()
	}
	s.logger.Printf("run %v language=%v status=%v took=%v", out.ID, out.Language, out.Status, s.now().Sub(start))
	return out
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, Outcome{Language: r.URL.Query().Get("language")})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, conf.MAXSOURCESIZE)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), requestErrStatus(err))
		return
	}
	s.render(w, s.Evaluate(r.Context(), r.PostForm.Get("language"), r.PostForm.Get("code"), true))
}

func (s *Server) api(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, conf.MAXSOURCESIZE))
	if err := dec.Decode(&req); err != nil {
		http.Error(w, err.Error(), requestErrStatus(err))
		return
	}
	if req.Language != "" {
		if _, ok := s.config.Language(req.Language); !ok {
			http.Error(w, "unsupported language "+req.Language, http.StatusBadRequest)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Evaluate(r.Context(), req.Language, req.Code, req.Run)); err != nil {
		s.logger.Printf("writing response: %v", err)
	}
}

func (s *Server) render(w http.ResponseWriter, out Outcome) {
	if out.Language == "" {
		out.Language = s.config.DefaultLanguage
	}
	data := page{Title: conf.APPNAME, Outcome: out}
	for _, tag := range s.config.LanguageTags() {
		lang, _ := s.config.Language(tag)
		label := lang.Label
		if label == "" {
			label = tag
		}
		data.Languages = append(data.Languages, languageOption{
			Tag:      tag,
			Label:    label,
			Selected: strings.EqualFold(tag, out.Language),
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.logger.Printf("rendering page: %v", err)
	}
}

func requestErrStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
