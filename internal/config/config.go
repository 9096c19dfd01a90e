// Package config loads the settings of the engine and of the command line
// tool from a YAML file, the environment and key=value directives.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/midbel/sheetcalc/internal/ds"
	"github.com/midbel/sheetcalc/value"
	"github.com/xyproto/env/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "SHEETCALC_CONFIG"
	EnvLocale   = "SHEETCALC_LOCALE"
	EnvLogLevel = "SHEETCALC_LOG_LEVEL"
	EnvColor    = "SHEETCALC_COLOR"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrDirective = errors.New("invalid directive")

type Config struct {
	Locale LocaleConfig `yaml:"locale"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

type LocaleConfig struct {
	Culture string `yaml:"culture"`
	Decimal string `yaml:"decimal"`
	Group   string `yaml:"group"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OutputConfig struct {
	Number string `yaml:"number,omitempty"`
	Color  string `yaml:"color"`
}

func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes the content of a configuration file. The path is only used
// in error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// FromEnv loads the file named by SHEETCALC_CONFIG, if any, and applies the
// other environment overrides.
func FromEnv() (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if file := env.Str(EnvConfig); file != "" {
		cfg, err = Load(file)
	} else {
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}
	cfg.Locale.Culture = env.Str(EnvLocale, cfg.Locale.Culture)
	cfg.Log.Level = env.Str(EnvLogLevel, cfg.Log.Level)
	cfg.Output.Color = env.Str(EnvColor, cfg.Output.Color)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return cfg, nil
}

// Apply sets the option named by a key.path=value directive.
func (c *Config) Apply(directive string) error {
	key, val, ok := strings.Cut(directive, "=")
	if !ok {
		return fmt.Errorf("%w: %s: missing value", ErrDirective, directive)
	}
	return c.Set(strings.TrimSpace(key), strings.TrimSpace(val))
}

func (c *Config) Set(key, val string) error {
	set, ok := setters.Get(strings.Split(key, "."))
	if !ok {
		return fmt.Errorf("%w: %s: unknown option", ErrDirective, key)
	}
	prev := *c
	set(c, val)
	if err := c.validate(); err != nil {
		*c = prev
		return fmt.Errorf("%w: %s: %w", ErrDirective, key, err)
	}
	return nil
}

// Keys gives the names of the options accepted by Set.
func Keys() []string {
	var keys []string
	setters.Walk(nil, func(path []string, _ func(*Config, string)) {
		keys = append(keys, strings.Join(path, "."))
	})
	return keys
}

func (c *Config) ValueLocale() (value.Locale, error) {
	decimal, _ := utf8.DecodeRuneInString(c.Locale.Decimal)
	group, _ := utf8.DecodeRuneInString(c.Locale.Group)
	return value.NewLocale(c.Locale.Culture, decimal, group)
}

// Logger creates the logger writing to w at the configured level and in
// the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	level.UnmarshalText([]byte(c.Log.Level))

	opts := slog.HandlerOptions{
		Level: level,
	}
	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, &opts)
	} else {
		handler = slog.NewTextHandler(w, &opts)
	}
	return slog.New(handler)
}

func (c *Config) setDefaults() {
	if c.Locale.Culture == "" {
		c.Locale.Culture = "en-US"
	}
	if c.Locale.Decimal == "" {
		c.Locale.Decimal = "."
	}
	if c.Locale.Group == "" {
		c.Locale.Group = ","
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
}

func (c *Config) validate() error {
	if _, err := language.Parse(c.Locale.Culture); err != nil {
		return fmt.Errorf("locale.culture: %s: %w", c.Locale.Culture, err)
	}
	if utf8.RuneCountInString(c.Locale.Decimal) != 1 {
		return fmt.Errorf("locale.decimal: %q: single character expected", c.Locale.Decimal)
	}
	if utf8.RuneCountInString(c.Locale.Group) != 1 {
		return fmt.Errorf("locale.group: %q: single character expected", c.Locale.Group)
	}
	if c.Locale.Decimal == c.Locale.Group {
		return fmt.Errorf("locale: decimal and group separators are the same")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: %s: text or json expected", c.Log.Format)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color: %s: auto, always or never expected", c.Output.Color)
	}
	return nil
}

var setters = makeSetters()

func makeSetters() *ds.Trie[func(*Config, string)] {
	trie := ds.NewTrie[func(*Config, string)]()
	trie.Register([]string{"locale", "culture"}, func(c *Config, str string) {
		c.Locale.Culture = str
	})
	trie.Register([]string{"locale", "decimal"}, func(c *Config, str string) {
		c.Locale.Decimal = str
	})
	trie.Register([]string{"locale", "group"}, func(c *Config, str string) {
		c.Locale.Group = str
	})
	trie.Register([]string{"log", "level"}, func(c *Config, str string) {
		c.Log.Level = str
	})
	trie.Register([]string{"log", "format"}, func(c *Config, str string) {
		c.Log.Format = str
	})
	trie.Register([]string{"output", "number"}, func(c *Config, str string) {
		c.Output.Number = str
	})
	trie.Register([]string{"output", "color"}, func(c *Config, str string) {
		c.Output.Color = str
	})
	return trie
}
