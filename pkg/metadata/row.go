package metadata

import (
	"fmt"
	"strings"
)

// ColumnMapping names the spreadsheet headers each Row field is read from.
// It is validated once at pipeline entry; downstream code works with typed
// Row fields and never looks columns up by name.
type ColumnMapping struct {
	Question    string `yaml:"question"`
	Label       string `yaml:"label"`
	QuestionID  string `yaml:"questionId"`
	ExternalID  string `yaml:"externalId"`
	Datatype    string `yaml:"datatype"`
	Validation  string `yaml:"validation"`
	Mandatory   string `yaml:"mandatory"`
	Rendering   string `yaml:"rendering"`
	LowerLimit  string `yaml:"lowerLimit"`
	UpperLimit  string `yaml:"upperLimit"`
	Default     string `yaml:"default"`
	Calculation string `yaml:"calculation"`
	SkipLogic   string `yaml:"skipLogic"`
	Page        string `yaml:"page"`
	Section     string `yaml:"section"`
	OptionSet   string `yaml:"optionSet"`
	Tooltip     string `yaml:"tooltip"`

	// Answer and Order apply to the option-set sheet only.
	Answer string `yaml:"answer"`
	Order  string `yaml:"order"`

	TranslationQuestion string `yaml:"translationQuestion"`
	TranslationSection  string `yaml:"translationSection"`
	TranslationTooltip  string `yaml:"translationTooltip"`
	TranslationAnswer   string `yaml:"translationAnswer"`
}

// DefaultColumnMapping returns the header names used by the stock metadata
// workbook layout.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Question:    "Question",
		Label:       "Label if different",
		QuestionID:  "Question ID",
		ExternalID:  "External ID",
		Datatype:    "Datatype",
		Validation:  "Validation (format)",
		Mandatory:   "Mandatory",
		Rendering:   "Rendering",
		LowerLimit:  "Lower limit",
		UpperLimit:  "Upper limit",
		Default:     "Default value",
		Calculation: "Calculation",
		SkipLogic:   "Skip logic",
		Page:        "Page",
		Section:     "Section",
		OptionSet:   "OptionSet name",
		Tooltip:     "Tooltip",

		Answer: "Answers",
		Order:  "Order",

		TranslationQuestion: "Translation - Question",
		TranslationSection:  "Translation - Section",
		TranslationTooltip:  "Translation - Tooltip",
		TranslationAnswer:   "Translation",
	}
}

// Validate checks that the headers the pipeline cannot operate without are
// configured. Optional columns may be left empty to disable them.
func (m ColumnMapping) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"question", m.Question},
		{"rendering", m.Rendering},
		{"page", m.Page},
		{"section", m.Section},
		{"optionSet", m.OptionSet},
		{"answer", m.Answer},
	}
	for _, col := range required {
		if strings.TrimSpace(col.value) == "" {
			return fmt.Errorf("metadata: column mapping %q is required", col.name)
		}
	}
	return nil
}

// Row is one spreadsheet record describing a single question. Fields hold
// raw cell text; an empty string means the cell was absent or blank.
type Row struct {
	Question    string
	Label       string
	QuestionID  string
	ExternalID  string
	Datatype    string
	Validation  string
	Mandatory   string
	Rendering   string
	LowerLimit  string
	UpperLimit  string
	Default     string
	Calculation string
	SkipLogic   string
	Page        string
	Section     string
	OptionSet   string
	Tooltip     string

	TranslationQuestion string
	TranslationSection  string
	TranslationTooltip  string
	TranslationAnswer   string
}

// HasQuestion reports whether the row carries question text. Rows without it
// contribute to page/section grouping but never produce a question.
func (r Row) HasQuestion() bool {
	return strings.TrimSpace(r.Question) != ""
}
