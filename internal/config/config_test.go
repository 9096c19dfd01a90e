package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	data := `
locale:
  culture: fr-FR
  decimal: ","
  group: " "
log:
  level: debug
output:
  number: "0.00"
`
	cfg, err := Parse([]byte(data), "test.yml")
	if err != nil {
		t.Fatalf("fail to parse config: %s", err)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format: want text, got %s", cfg.Log.Format)
	}
	if cfg.Output.Color != ColorAuto {
		t.Errorf("output.color: want auto, got %s", cfg.Output.Color)
	}
	loc, err := cfg.ValueLocale()
	if err != nil {
		t.Fatalf("fail to create locale: %s", err)
	}
	if loc.Decimal != ',' || loc.Group != ' ' {
		t.Errorf("separators mismatched! want ',' and ' ', got %q and %q", loc.Decimal, loc.Group)
	}
	if loc.Tag.String() != "fr-FR" {
		t.Errorf("culture mismatched! want fr-FR, got %s", loc.Tag)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"locale:\n  culture: not a culture!\n",
		"locale:\n  decimal: \",,\"\n",
		"locale:\n  decimal: \",\"\n",
		"log:\n  level: chatty\n",
		"log:\n  format: xml\n",
		"output:\n  color: sometimes\n",
		"locale: [\n",
	}
	for _, str := range tests {
		if _, err := Parse([]byte(str), "test.yml"); err == nil {
			t.Errorf("%q: expected error", str)
		}
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sheetcalc.yml")
	if err := os.WriteFile(file, []byte("log:\n  format: json\n"), 0644); err != nil {
		t.Fatalf("fail to write config: %s", err)
	}
	t.Setenv(EnvConfig, file)
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvColor, "never")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("fail to load config: %s", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log.format: want json, got %s", cfg.Log.Format)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level: want warn, got %s", cfg.Log.Level)
	}
	if cfg.Output.Color != ColorNever {
		t.Errorf("output.color: want never, got %s", cfg.Output.Color)
	}

	t.Setenv(EnvColor, "rainbow")
	if _, err := FromEnv(); err == nil {
		t.Errorf("expected error with invalid color from environment")
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	tests := []struct {
		Directive string
		Fail      bool
	}{
		{Directive: "log.level=debug"},
		{Directive: "output.number = #,##0.00"},
		{Directive: "locale.culture=de-DE"},
		{Directive: "log.level=loud", Fail: true},
		{Directive: "log.colour=red", Fail: true},
		{Directive: "log", Fail: true},
		{Directive: "locale.group=.", Fail: true},
	}
	for _, c := range tests {
		err := cfg.Apply(c.Directive)
		if c.Fail {
			if !errors.Is(err, ErrDirective) {
				t.Errorf("%s: expected directive error, got %v", c.Directive, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %s", c.Directive, err)
		}
	}
	if cfg.Log.Level != "debug" || cfg.Output.Number != "#,##0.00" || cfg.Locale.Culture != "de-DE" {
		t.Errorf("directives not applied: %+v", cfg)
	}
	if cfg.Locale.Group != "," {
		t.Errorf("invalid directive should leave config unchanged, got group %q", cfg.Locale.Group)
	}
}

func TestKeys(t *testing.T) {
	got := strings.Join(Keys(), " ")
	want := "locale.culture locale.decimal locale.group log.format log.level output.color output.number"
	if got != want {
		t.Errorf("keys mismatched!\nwant %s\ngot  %s", want, got)
	}
}
