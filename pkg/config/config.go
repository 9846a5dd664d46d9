// Package config loads the generation settings document: column-name
// mappings, the sheet filter, and the form constants that vary between
// deployments.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/clinsheet/formgen/pkg/metadata"
)

// Config holds everything the pipeline reads from its settings file.
// Zero-valued fields fall back to their defaults during Validate.
type Config struct {
	// Columns maps spreadsheet headers onto row fields.
	Columns metadata.ColumnMapping `yaml:"columns"`

	// SheetPattern selects which sheets hold forms.
	SheetPattern string `yaml:"sheetPattern"`

	// OptionSetsSheet names the sheet holding the shared answer lists.
	OptionSetsSheet string `yaml:"optionSetsSheet"`

	// HeaderRow is the 1-based row the column headers live on.
	HeaderRow int `yaml:"headerRow"`

	// Language is the translation document language code.
	Language string `yaml:"language"`

	// DescriptionPrefix is prepended to the sheet name in form descriptions.
	DescriptionPrefix string `yaml:"descriptionPrefix"`

	// Encounter is the encounter type recorded on generated forms.
	Encounter string `yaml:"encounter"`
}

// Default returns the stock configuration matching the standard metadata
// workbook layout.
func Default() Config {
	return Config{
		Columns:           metadata.DefaultColumnMapping(),
		SheetPattern:      `^F\d{2}`,
		OptionSetsSheet:   "OptionSets",
		HeaderRow:         2,
		Language:          "ar",
		DescriptionPrefix: "MSF Form - ",
		Encounter:         "Consultation",
	}
}

// Load reads a YAML settings file, layering it over the defaults so a
// partial file only overrides what it names.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fills defaulted fields and rejects settings the pipeline cannot
// run with.
func (c *Config) Validate() error {
	defaults := Default()
	if c.SheetPattern == "" {
		c.SheetPattern = defaults.SheetPattern
	}
	if c.OptionSetsSheet == "" {
		c.OptionSetsSheet = defaults.OptionSetsSheet
	}
	if c.HeaderRow <= 0 {
		c.HeaderRow = defaults.HeaderRow
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if c.Encounter == "" {
		c.Encounter = defaults.Encounter
	}
	if _, err := regexp.Compile(c.SheetPattern); err != nil {
		return fmt.Errorf("config: sheet pattern %q: %w", c.SheetPattern, err)
	}
	return c.Columns.Validate()
}

// CompileSheetPattern returns the sheet filter as a compiled regexp. Call
// Validate first; an invalid pattern panics here.
func (c Config) CompileSheetPattern() *regexp.Regexp {
	return regexp.MustCompile(c.SheetPattern)
}
