package conf

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"gopkg.in/yaml.v3"
)

type (
	// Config is everything the cli and the playground can be configured with.
	// It is read from a yaml file on top of Default.
	Config struct {
		// Languages maps a language tag, as selected in the playground or with
		// -lang, to how it is run.
		Languages map[string]Language `yaml:"languages"`
		// DefaultLanguage is the tag used when none is given.
		DefaultLanguage string `yaml:"default_language"`
		// Timeout bounds a single execution, for example "10s".
		Timeout time.Duration `yaml:"timeout"`
		// TimeFormat is a strftime pattern for the time a check ran.
		TimeFormat string `yaml:"time_format"`
		// Addr is where the playground listens.
		Addr string `yaml:"addr"`
	}
	// Language describes how source in one language is run.
	Language struct {
		// Label is shown in the playground's language select.
		Label string `yaml:"label"`
		// Checked sources go through the type checker and only run when clean.
		// Unchecked sources go straight to execution.
		Checked bool `yaml:"checked"`
		// Command is the program and its arguments. {file} is replaced with the
		// path of the source file and {dir} with the directory holding it.
		Command []string `yaml:"command"`
		// Filename is the name the source is written under, for languages that
		// care, like Main.java. It defaults to main plus Extension.
		Filename string `yaml:"filename"`
		// Extension of the source file, with the leading dot.
		Extension string `yaml:"extension"`
	}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultLanguage: "lua",
		Timeout:         10 * time.Second,
		TimeFormat:      "%Y-%m-%d %H:%M:%S",
		Addr:            "localhost:8080",
		Languages: map[string]Language{
			"lua": {
				Label:     "Lua",
				Checked:   true,
				Command:   []string{"lua", "{file}"},
				Extension: ".lua",
			},
			"c": {
				Label:     "C",
				Command:   []string{"sh", "-c", "cc -o {dir}/main {file} && {dir}/main"},
				Extension: ".c",
			},
			"cpp": {
				Label:     "C++",
				Command:   []string{"sh", "-c", "c++ -o {dir}/main {file} && {dir}/main"},
				Extension: ".cpp",
			},
			"java": {
				Label:     "Java",
				Command:   []string{"sh", "-c", "cd {dir} && javac Main.java && java -cp {dir} Main"},
				Filename:  "Main.java",
				Extension: ".java",
			},
		},
	}
}

// Load reads the yaml file at path over the defaults. Languages in the file
// replace the default language of the same tag.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses yaml config content over the defaults. The path is only used
// in error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	langs := cfg.Languages
	cfg.Languages = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for tag, lang := range cfg.Languages {
		langs[tag] = lang
	}
	cfg.Languages = langs
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	errs := []error{}
	if _, ok := cfg.Languages[cfg.DefaultLanguage]; !ok {
		errs = append(errs, fmt.Errorf("default_language %q is not configured", cfg.DefaultLanguage))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", cfg.Timeout))
	}
	if _, err := strftime.New(cfg.TimeFormat); err != nil {
		errs = append(errs, fmt.Errorf("time_format: %w", err))
	}
	for _, tag := range cfg.LanguageTags() {
		if len(cfg.Languages[tag].Command) == 0 {
			errs = append(errs, fmt.Errorf("languages.%v: command is required", tag))
		}
	}
	return errors.Join(errs...)
}

// Language looks up a language by tag, falling back to the default language
// for an empty tag.
func (cfg *Config) Language(tag string) (Language, bool) {
	if tag == "" {
		tag = cfg.DefaultLanguage
	}
	lang, ok := cfg.Languages[strings.ToLower(tag)]
	return lang, ok
}

// LanguageTags returns the configured tags in a stable order.
func (cfg *Config) LanguageTags() []string {
	tags := make([]string, 0, len(cfg.Languages))
	for tag := range cfg.Languages {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Stamp formats t with TimeFormat.
func (cfg *Config) Stamp(t time.Time) string {
	f, err := strftime.New(cfg.TimeFormat)
	if err != nil {
		return t.Format(time.DateTime)
	}
	return f.FormatString(t)
}

// SourceName is the file name source in this language is written under.
func (lang Language) SourceName() string {
	if lang.Filename != "" {
		return lang.Filename
	}
	return "main" + lang.Extension
}

// Args expands the command template for a source file at path inside dir.
func (lang Language) Args(path, dir string) []string {
	args := make([]string, len(lang.Command))
	replacer := strings.NewReplacer("{file}", path, "{dir}", dir)
	for i, arg := range lang.Command {
		args[i] = replacer.Replace(arg)
	}
	return args
}
