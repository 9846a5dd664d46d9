package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clinsheet/formgen/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Language != "ar" || cfg.HeaderRow != 2 || cfg.OptionSetsSheet != "OptionSets" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.CompileSheetPattern().MatchString("F01 Consultation") {
		t.Fatalf("default pattern misses form sheets")
	}
	if cfg.CompileSheetPattern().MatchString("OptionSets") {
		t.Fatalf("default pattern matches the option set sheet")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formgen.yaml")
	doc := `
language: fr
sheetPattern: "^Form "
columns:
  question: "Q"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "fr" {
		t.Fatalf("language = %q", cfg.Language)
	}
	if cfg.SheetPattern != "^Form " {
		t.Fatalf("pattern = %q", cfg.SheetPattern)
	}
	if cfg.Columns.Question != "Q" {
		t.Fatalf("question column = %q", cfg.Columns.Question)
	}
	// Untouched settings keep their defaults.
	if cfg.Columns.Rendering != "Rendering" || cfg.HeaderRow != 2 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formgen.yaml")
	if err := os.WriteFile(path, []byte("sheetPattern: '['\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
