package form_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/clinsheet/formgen/pkg/form"
)

func TestQuestionMarshalOmitsEmpty(t *testing.T) {
	q := form.Question{
		ID:    "age",
		Label: "Age",
		Type:  "obs",
		Options: form.QuestionOptions{
			Rendering: "number",
			Concept:   "age",
		},
	}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, absent := range []string{"answers", "hide", "validators", "value", "warning", "disallowDecimals"} {
		if strings.Contains(s, absent) {
			t.Errorf("empty field %q serialized: %s", absent, s)
		}
	}
	if !strings.Contains(s, `"required":false`) {
		t.Errorf("required must always serialize: %s", s)
	}
}

func TestQuestionMarshalWorkspace(t *testing.T) {
	q := form.Question{
		ID:    "medications",
		Label: "Medications",
		Options: form.QuestionOptions{
			Rendering:     "workspace-launcher",
			ButtonLabel:   "Order medications",
			WorkspaceName: "order-basket",
		},
	}
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if strings.Contains(s, `"type"`) {
		t.Errorf("workspace question must not carry a type: %s", s)
	}
	if strings.Contains(s, `"concept"`) {
		t.Errorf("workspace question must not carry a concept: %s", s)
	}
}

func TestTranslationDocumentMarshalSortsKeys(t *testing.T) {
	ar := "العمر"
	doc := form.NewTranslationDocument("F01 Test", "ar", map[string]*string{
		"Weight": nil,
		"Age":    &ar,
		"Sex":    nil,
	})
	if doc.Description != "Ar Translations for 'F01 Test'" {
		t.Fatalf("description = %q", doc.Description)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"Sex":null`) {
		t.Fatalf("untranslated label must serialize as null: %s", s)
	}
	age := strings.Index(s, `"Age"`)
	sex := strings.Index(s, `"Sex"`)
	weight := strings.Index(s, `"Weight"`)
	if !(age < sex && sex < weight) {
		t.Fatalf("translation keys not sorted: %s", s)
	}
}

func TestNewTranslationDocumentNilMap(t *testing.T) {
	doc := form.NewTranslationDocument("F02", "ar", nil)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"translations":{}`) {
		t.Fatalf("nil map must serialize as empty object: %s", data)
	}
}
