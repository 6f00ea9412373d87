package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := Default()
	require.NoError(t, cfg.validate())
	lang, ok := cfg.Language("")
	require.True(t, ok)
	assert.True(t, lang.Checked)
	assert.Equal(t, []string{"c", "cpp", "java", "lua"}, cfg.LanguageTags())
	for _, tag := range []string{"c", "cpp", "java"} {
		lang, ok := cfg.Language(tag)
		require.True(t, ok, tag)
		assert.False(t, lang.Checked, tag)
	}
	_, ok = cfg.Language("cobol")
	assert.False(t, ok)
	lang, ok = cfg.Language("LUA")
	require.True(t, ok)
	assert.Equal(t, "Lua", lang.Label)
}

func TestParse(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`
default_language: lua
timeout: 2s
time_format: "%H:%M"
addr: ":9000"
languages:
  lua:
    label: Lua 5.4
    checked: true
    command: [lua5.4, "{file}"]
    extension: .lua
  python:
    label: Python
    command: [python3, "{file}"]
    extension: .py
`), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, []string{"c", "cpp", "java", "lua", "python"}, cfg.LanguageTags())
	lua, _ := cfg.Language("lua")
	assert.Equal(t, []string{"lua5.4", "{file}"}, lua.Command)
	python, _ := cfg.Language("python")
	assert.False(t, python.Checked)
	assert.Equal(t, "main.py", python.SourceName())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"languages: [":                            "parsing test.yaml",
		"default_language: cobol":                 `default_language "cobol" is not configured`,
		"timeout: -1s":                            "timeout must be positive",
		"languages:\n  go:\n    extension: .go": "languages.go: command is required",
	}
	for src, msg := range tests {
		_, err := Parse([]byte(src), "test.yaml")
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), msg, src)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "luafcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":1234\"\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Addr)
	assert.Equal(t, Default().Timeout, cfg.Timeout)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestStamp(t *testing.T) {
	t.Parallel()
	cfg := Default()
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "2024-03-05 14:07:09", cfg.Stamp(at))
	cfg.TimeFormat = "%d/%m/%Y"
	assert.Equal(t, "05/03/2024", cfg.Stamp(at))
}

func TestLanguageArgs(t *testing.T) {
	t.Parallel()
	java, _ := Default().Language("java")
	assert.Equal(t, "Main.java", java.SourceName())
	assert.Equal(t,
		[]string{"sh", "-c", "cd /tmp/x && javac Main.java && java -cp /tmp/x Main"},
		java.Args("/tmp/x/Main.java", "/tmp/x"),
	)
	lua, _ := Default().Language("lua")
	assert.Equal(t, []string{"lua", "/tmp/y/main.lua"}, lua.Args("/tmp/y/main.lua", "/tmp/y"))
}
