package playground

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanema/luafcheck"
	"github.com/tanema/luafcheck/src/check"
	"github.com/tanema/luafcheck/src/conf"
)

type fakeExecutor struct {
	mu     sync.Mutex
	calls  []string
	output string
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, language, src string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, language+":"+src)
	return f.output, f.err
}

func testServer(t *testing.T, exec *fakeExecutor) (*Server, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	srv := New(conf.Default(), exec, log.New(logs, "", 0))
	srv.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC) }
	return srv, logs
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		language string
		code     string
		run      bool
		status   string
		result   string
		output   string
		calls    int
	}{
		{"clean runs", "lua", "x = 1\nprint(x)", true, "clean", check.CleanMessage, "ran", 1},
		{"clean without run", "lua", "x = 1", false, "clean", check.CleanMessage, "", 0},
		{"default language", "", "x = 1", true, "clean", check.CleanMessage, "ran", 1},
		{"errors do not run", "Lua", "x = 'a'\nx = 1", true, "errors", "Type Error: Variable 'x' was 'string', now 'int' at line 2", "", 0},
		{"syntax errors do not run", "lua", "x = = 1", true, "syntax", "Syntax Error: Parse Error: <playground>:1:5 unexpected symbol near '='", "", 0},
		{"unchecked runs", "c", "int main() { return 0; }", true, luafcheck.StatusUnchecked, luafcheck.OutputHeader, "ran", 1},
		{"unchecked without run", "java", "class Main {}", false, luafcheck.StatusUnchecked, luafcheck.OutputHeader, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exec := &fakeExecutor{output: "ran"}
			srv, logs := testServer(t, exec)
			out := srv.Evaluate(context.Background(), tt.language, tt.code, tt.run)
			assert.Equal(t, tt.status, out.Status)
			assert.Equal(t, tt.result, out.Result)
			assert.Equal(t, tt.output, out.Output)
			assert.Len(t, exec.calls, tt.calls)
			assert.Equal(t, "2024-03-05 14:07:09", out.CheckedAt)
			_, err := uuid.Parse(out.ID)
			require.NoError(t, err)
			assert.Contains(t, logs.String(), "run "+out.ID)
		})
	}
}

func TestEvaluateDiagnostics(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t, &fakeExecutor{})
	out := srv.Evaluate(context.Background(), "lua", "y = x\nre.match(1, 'a')", false)
	assert.Equal(t, []Diagnostic{
		{Kind: "undefined variable", Line: 1, Message: "Undefined variable 'x' at line 1"},
		{Kind: "regex argument", Line: 2, Message: "Type Error: regex pattern argument must be 'string' at line 2"},
	}, out.Diagnostics)
}

func TestEvaluateRunFailure(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t, &fakeExecutor{output: "partial", err: errors.New("Runtime Error: boom")})
	out := srv.Evaluate(context.Background(), "lua", "print(1)", true)
	assert.Equal(t, "clean", out.Status)
	assert.Equal(t, "Runtime Error: boom", out.Output)
}

func TestIndex(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t, &fakeExecutor{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?language=java", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<textarea")
	assert.Contains(t, body, `<option value="lua">Lua</option>`)
	assert.Contains(t, body, `<option value="java" selected>Java</option>`)
	assert.NotContains(t, body, `id="result"`)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmit(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{output: "3\n"}
	srv, _ := testServer(t, exec)

	post := func(form url.Values) string {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	body := post(url.Values{"language": {"lua"}, "code": {"x = 1 + 2\nprint(x)"}})
	assert.Contains(t, body, check.CleanMessage)
	assert.Contains(t, body, "3\n")
	assert.Contains(t, body, "x = 1 &#43; 2")
	assert.Equal(t, []string{"lua:x = 1 + 2\nprint(x)"}, exec.calls)

	body = post(url.Values{"language": {"lua"}, "code": {"x = 1 + 'a'"}})
	assert.Contains(t, body, "Type Mismatch: &#39;int&#39; and &#39;string&#39; at line 1")
	assert.Len(t, exec.calls, 1)

	body = post(url.Values{"language": {"cpp"}, "code": {"int main() {}"}})
	assert.Contains(t, body, luafcheck.OutputHeader)
	assert.Contains(t, body, `<option value="cpp" selected>C&#43;&#43;</option>`)
	assert.Len(t, exec.calls, 2)
}

func TestSubmitTooLarge(t *testing.T) {
	t.Parallel()
	srv, _ := testServer(t, &fakeExecutor{})
	form := url.Values{"code": {strings.Repeat("x", conf.MAXSOURCESIZE)}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAPI(t *testing.T) {
	t.Parallel()
	exec := &fakeExecutor{output: "ok\n"}
	srv, _ := testServer(t, exec)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	call := func(body string) (*http.Response, Outcome) {
		resp, err := http.Post(ts.URL+"/api/check", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		var out Outcome
		if resp.StatusCode == http.StatusOK {
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		return resp, out
	}

	resp, out := call(`{"code": "x = 'a'\nx = 2.5", "language": "lua", "run": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "errors", out.Status)
	assert.Equal(t, "lua", out.Language)
	require.Len(t, out.Diagnostics, 1)
	assert.Equal(t, "type mismatch", out.Diagnostics[0].Kind)
	assert.Equal(t, int64(2), out.Diagnostics[0].Line)
	assert.Equal(t, "2024-03-05 14:07:09", out.CheckedAt)
	assert.Empty(t, out.Output)

	resp, out = call(`{"code": "print(re.search('a', 'cat'))", "run": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "clean", out.Status)
	assert.Equal(t, []Diagnostic{}, out.Diagnostics)
	assert.Equal(t, "ok\n", out.Output)

	resp, _ = call(`{"code": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = call(`{"code": "", "language": "cobol"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Get(ts.URL + "/api/check")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestListenAndServe(t *testing.T) {
	t.Parallel()
	cfg := conf.Default()
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, &fakeExecutor{}, log.New(io.Discard, "", 0))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
