package check

import (
	"strings"
)

// Session checks source one chunk at a time, the way a repl feeds it. Every
// chunk is checked together with the chunks accepted before it so that names
// bound earlier stay bound. Only diagnostics on the new lines are reported.
// A Session is not safe for concurrent use.
type Session struct {
	filename string
	src      strings.Builder
	lines    int64
}

// NewSession creates an empty session. filename is used in syntax errors.
func NewSession(filename string) *Session {
	return &Session{filename: filename}
}

// Eval checks chunk after everything accepted so far. A chunk without new
// diagnostics is accepted. Source that ends mid statement reports Incomplete
// and is not accepted, so the caller can append more and try again.
func (s *Session) Eval(chunk string) Result {
	if !strings.HasSuffix(chunk, "\n") {
		chunk += "\n"
	}
	res := CheckReader(s.filename, strings.NewReader(s.src.String()+chunk))
	if res.Status() == Unparsable {
		return res
	}
	res = res.since(s.lines)
	if res.OK() {
		s.src.WriteString(chunk)
		s.lines += int64(strings.Count(chunk, "\n"))
	}
	return res
}

// Source returns everything accepted so far.
func (s *Session) Source() string {
	return s.src.String()
}

// Reset forgets all accepted source.
func (s *Session) Reset() {
	s.src.Reset()
	s.lines = 0
}
