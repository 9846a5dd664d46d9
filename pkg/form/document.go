// Package form defines the JSON documents emitted by the generation
// pipeline: the page/section/question form schema consumed by the rendering
// engine and the per-language translation document that accompanies it.
package form

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Form is the top-level form schema document.
type Form struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Version         string `json:"version"`
	Published       bool   `json:"published"`
	UUID            string `json:"uuid"`
	Processor       string `json:"processor"`
	Encounter       string `json:"encounter"`
	Retired         bool   `json:"retired"`
	ReferencedForms []any  `json:"referencedForms"`
	Pages           []Page `json:"pages"`
}

// Page groups sections under a label. Page order follows first occurrence in
// the source rows.
type Page struct {
	Label    string    `json:"label"`
	Sections []Section `json:"sections"`
}

// Section groups questions under a label within a page.
type Section struct {
	Label      string     `json:"label"`
	IsExpanded bool       `json:"isExpanded"`
	Questions  []Question `json:"questions"`
}

// Question is one renderable form question.
type Question struct {
	ID                  string          `json:"id"`
	Label               string          `json:"label"`
	Type                string          `json:"type,omitempty"`
	Required            bool            `json:"required"`
	Value               []string        `json:"value,omitempty"`
	InlineMultiCheckbox bool            `json:"inlineMultiCheckbox,omitempty"`
	DisallowDecimals    *bool           `json:"disallowDecimals,omitempty"`
	Options             QuestionOptions `json:"questionOptions"`
	Validators          json.RawMessage `json:"validators,omitempty"`
	Default             any             `json:"default,omitempty"`
	Info                string          `json:"questionInfo,omitempty"`
	Hide                *HideRule       `json:"hide,omitempty"`
	IDModified          bool            `json:"idModified,omitempty"`
	OriginalLabel       string          `json:"originalLabel,omitempty"`
	Warning             string          `json:"warning,omitempty"`
	OptionSetNotFound   bool            `json:"optionSetNotFound,omitempty"`
	OptionSetName       string          `json:"optionSetName,omitempty"`
}

// QuestionOptions carries the rendering-specific block of a question.
type QuestionOptions struct {
	Rendering     string       `json:"rendering"`
	Concept       string       `json:"concept,omitempty"`
	ButtonLabel   string       `json:"buttonLabel,omitempty"`
	WorkspaceName string       `json:"workspaceName,omitempty"`
	Min           any          `json:"min,omitempty"`
	Max           any          `json:"max,omitempty"`
	Calculate     *Calculation `json:"calculate,omitempty"`
	Placeholder   bool         `json:"placeholder,omitempty"`
	Answers       []Answer     `json:"answers,omitempty"`
}

// Calculation wraps a calculated-value expression.
type Calculation struct {
	CalculateExpression string `json:"calculateExpression"`
}

// HideRule wraps a compiled skip-logic expression.
type HideRule struct {
	HideWhenExpression string `json:"hideWhenExpression"`
}

// Answer pairs a display label with its backend concept reference.
type Answer struct {
	Label   string `json:"label"`
	Concept string `json:"concept"`
}

// MissingOptionSet reports a question whose option set could not be
// resolved. The zero-tolerant pipeline emits a placeholder answer and keeps
// going; this record surfaces the miss to the caller.
type MissingOptionSet struct {
	QuestionID    string `json:"question_id"`
	QuestionLabel string `json:"question_label"`
	OptionSetName string `json:"optionSet_name"`
}

// TranslationDocument maps display labels to their translated strings for
// one language and one form. Keys marshal in lexicographic order.
type TranslationDocument struct {
	UUID         string             `json:"uuid"`
	Form         string             `json:"form"`
	Description  string             `json:"description"`
	Language     string             `json:"language"`
	Translations map[string]*string `json:"translations"`
}

// NewTranslationDocument assembles the translation document for a form. A
// nil translations map marshals as an empty object rather than null.
func NewTranslationDocument(formName, language string, translations map[string]*string) TranslationDocument {
	if translations == nil {
		translations = map[string]*string{}
	}
	return TranslationDocument{
		UUID:         "",
		Form:         formName,
		Description:  fmt.Sprintf("%s Translations for '%s'", capitalize(language), formName),
		Language:     language,
		Translations: translations,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + strings.ToLower(string(runes[1:]))
}
