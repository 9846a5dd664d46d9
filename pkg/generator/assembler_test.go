package generator_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clinsheet/formgen/pkg/form"
	"github.com/clinsheet/formgen/pkg/generator"
	"github.com/clinsheet/formgen/pkg/metadata"
)

func testOptionSets() *metadata.OptionSetTable {
	return metadata.NewOptionSetTable([]metadata.OptionSetEntry{
		{OptionSet: "Sex", Answer: "Male", Order: order(1), ExternalID: "076dea04-1111-2222-3333-8f1347cd3f3e"},
		{OptionSet: "Sex", Answer: "Female", Order: order(2), ExternalID: "#N/A"},
		{OptionSet: "YesNo", Answer: "Yes", Order: order(1)},
		{OptionSet: "YesNo", Answer: "No", Order: order(2)},
	})
}

func order(v float64) *float64 { return &v }

func testRows() []metadata.Row {
	return []metadata.Row{
		{
			Question: "Temperature", Rendering: "number", Mandatory: "TRUE",
			LowerLimit: "35", UpperLimit: "42",
			Page: "Admission", Section: "Vitals",
			TranslationQuestion: `"درجة الحرارة"`,
		},
		{
			Question: "Sex", Rendering: "radio", OptionSet: "Sex",
			Page: "Admission", Section: "Vitals",
		},
		{
			Question: "Pregnant", Rendering: "radio", OptionSet: "YesNo",
			SkipLogic: "[Sex] <> 'Male'",
			Page:      "Admission", Section: "History",
		},
		{
			Question: "Notes header", Rendering: "markdown",
			Page: "Treatment", Section: "Notes",
		},
		{
			Question: "Medications", Rendering: "order-basket",
			Page: "Treatment", Section: "Notes",
		},
		{
			Question: "Allergy", Rendering: "select", OptionSet: "Nonexistent",
			Page: "Treatment", Section: "Notes",
		},
	}
}

func newTestGenerator() *generator.Generator {
	return generator.New(generator.WithOptionSets(testOptionSets()))
}

func TestGenerateFormDocumentShape(t *testing.T) {
	result, err := newTestGenerator().GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	doc := result.Form
	if doc.Name != "F01 Test" {
		t.Fatalf("form name = %q", doc.Name)
	}
	if doc.Description != "MSF Form - F01 Test" {
		t.Fatalf("description = %q", doc.Description)
	}
	if doc.Version != "1" || !doc.Published || doc.Retired || doc.UUID != "" {
		t.Fatalf("form constants wrong: %+v", doc)
	}
	if doc.Processor != "EncounterFormProcessor" || doc.Encounter != "Consultation" {
		t.Fatalf("processor/encounter wrong: %q %q", doc.Processor, doc.Encounter)
	}

	var pages []string
	for _, p := range doc.Pages {
		pages = append(pages, p.Label)
	}
	if diff := cmp.Diff([]string{"Admission", "Treatment"}, pages); diff != "" {
		t.Fatalf("page order (-want +got):\n%s", diff)
	}

	var sections []string
	for _, s := range doc.Pages[0].Sections {
		sections = append(sections, s.Label)
	}
	if diff := cmp.Diff([]string{"Vitals", "History"}, sections); diff != "" {
		t.Fatalf("section order (-want +got):\n%s", diff)
	}

	if result.QuestionCount != 6 {
		t.Fatalf("question count = %d", result.QuestionCount)
	}
	// Sex has 2 answers, YesNo 2, the missing option set 1 placeholder.
	if result.AnswerCount != 5 {
		t.Fatalf("answer count = %d", result.AnswerCount)
	}
}

func TestGenerateFormQuestions(t *testing.T) {
	result, err := newTestGenerator().GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	vitals := result.Form.Pages[0].Sections[0].Questions
	temperature := vitals[0]
	if temperature.ID != "temperature" || temperature.Type != "obs" || !temperature.Required {
		t.Fatalf("temperature = %+v", temperature)
	}
	if temperature.Options.Concept != "temperature" {
		t.Fatalf("concept defaults to id, got %q", temperature.Options.Concept)
	}
	if temperature.Options.Min != 35.0 || temperature.Options.Max != 42.0 {
		t.Fatalf("bounds = %v %v", temperature.Options.Min, temperature.Options.Max)
	}
	if temperature.DisallowDecimals == nil || !*temperature.DisallowDecimals {
		t.Fatalf("number rendering should disallow decimals")
	}

	sex := vitals[1]
	if len(sex.Options.Answers) != 2 {
		t.Fatalf("sex answers = %+v", sex.Options.Answers)
	}
	if sex.Options.Answers[0].Concept != "076dea04-1111-2222-3333-8f1347cd3f3e" {
		t.Fatalf("external id not used: %q", sex.Options.Answers[0].Concept)
	}
	// "#N/A" means no external id; the concept is derived from the label.
	if sex.Options.Answers[1].Concept != "female" {
		t.Fatalf("null-marker concept = %q", sex.Options.Answers[1].Concept)
	}

	pregnant := result.Form.Pages[0].Sections[1].Questions[0]
	if pregnant.Hide == nil {
		t.Fatalf("skip logic not compiled")
	}
	want := "(sex !== '076dea04-1111-2222-3333-8f1347cd3f3e')"
	if pregnant.Hide.HideWhenExpression != want {
		t.Fatalf("hide expression = %q, want %q", pregnant.Hide.HideWhenExpression, want)
	}

	notes := result.Form.Pages[1].Sections[0].Questions
	markdown := notes[0]
	if markdown.Type != "markdown" || len(markdown.Value) != 1 || markdown.Value[0] != "## Notes header" {
		t.Fatalf("markdown question = %+v", markdown)
	}
	if markdown.Options.Concept != "" {
		t.Fatalf("markdown keeps a concept: %q", markdown.Options.Concept)
	}

	workspace := notes[1]
	if workspace.Type != "" {
		t.Fatalf("workspace question keeps obs type: %q", workspace.Type)
	}
	if workspace.Options.Rendering != "workspace-launcher" ||
		workspace.Options.WorkspaceName != "order-basket" ||
		workspace.Options.ButtonLabel != "Order medications" {
		t.Fatalf("workspace options = %+v", workspace.Options)
	}
}

func TestGenerateFormMissingOptionSet(t *testing.T) {
	result, err := newTestGenerator().GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	allergy := result.Form.Pages[1].Sections[0].Questions[2]
	if !allergy.OptionSetNotFound || allergy.OptionSetName != "Nonexistent" {
		t.Fatalf("missing option set not flagged: %+v", allergy)
	}
	if !allergy.Options.Placeholder {
		t.Fatalf("placeholder flag not set")
	}
	if len(allergy.Options.Answers) != 1 ||
		allergy.Options.Answers[0].Label != "[Missing OptionSet: Nonexistent]" ||
		allergy.Options.Answers[0].Concept != "missing_optionset_nonexistent" {
		t.Fatalf("placeholder answer = %+v", allergy.Options.Answers)
	}

	want := []form.MissingOptionSet{{
		QuestionID:    "allergy",
		QuestionLabel: "Allergy",
		OptionSetName: "Nonexistent",
	}}
	if diff := cmp.Diff(want, result.MissingOptionSets); diff != "" {
		t.Fatalf("missing report (-want +got):\n%s", diff)
	}
}

func TestGenerateFormTranslations(t *testing.T) {
	result, err := newTestGenerator().GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	tr := result.Translations
	if tr.Language != "ar" || tr.Form != "F01 Test" {
		t.Fatalf("translation header = %+v", tr)
	}
	if tr.Description != "Ar Translations for 'F01 Test'" {
		t.Fatalf("translation description = %q", tr.Description)
	}
	// Quote characters are stripped from translated strings.
	if v := tr.Translations["Temperature"]; v == nil || *v != "درجة الحرارة" {
		t.Fatalf("temperature translation = %v", v)
	}
	// Labels without translations are present with null values.
	if v, ok := tr.Translations["Sex"]; !ok || v != nil {
		t.Fatalf("untranslated label missing or non-null")
	}
	if _, ok := tr.Translations["Vitals"]; !ok {
		t.Fatalf("section label not collected")
	}
}

func TestGenerateFormRepeatedLabelsRenamed(t *testing.T) {
	rows := []metadata.Row{
		{Question: "Age", Rendering: "number", Page: "P", Section: "S"},
		{Question: "Age", Rendering: "number", Page: "P", Section: "S"},
		{Question: "Age", Rendering: "number", Page: "P", Section: "S"},
	}
	result, err := generator.New().GenerateForm("F02", rows)
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	qs := result.Form.Pages[0].Sections[0].Questions
	ids := []string{qs[0].ID, qs[1].ID, qs[2].ID}
	if diff := cmp.Diff([]string{"age", "age_1", "age_2"}, ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if qs[0].IDModified {
		t.Fatalf("first question should keep its plain identifier")
	}
	if !qs[1].IDModified || qs[1].OriginalLabel != "Age" || qs[1].Warning == "" {
		t.Fatalf("rename not surfaced: %+v", qs[1])
	}
}

func TestGenerateFormEmitsQuestionlessSections(t *testing.T) {
	rows := []metadata.Row{
		{Page: "P", Section: "Header only"},
		{Question: "Age", Rendering: "number", Page: "P", Section: "S"},
	}
	result, err := generator.New().GenerateForm("F02", rows)
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	sections := result.Form.Pages[0].Sections
	if len(sections) != 2 || sections[0].Label != "Header only" {
		t.Fatalf("sections = %+v", sections)
	}
	if sections[0].Questions == nil || len(sections[0].Questions) != 0 {
		t.Fatalf("header-only section questions = %+v", sections[0].Questions)
	}
}

func TestGenerateFormValidators(t *testing.T) {
	rows := []metadata.Row{
		{Question: "Weight", Rendering: "number", Page: "P", Section: "S",
			Validation: `[{"type": "js_expression"}]`},
		{Question: "Height", Rendering: "number", Page: "P", Section: "S",
			Validation: "null"},
		{Question: "BMI", Rendering: "number", Page: "P", Section: "S",
			Validation: "{not json"},
	}
	result, err := generator.New().GenerateForm("F02", rows)
	if err != nil {
		t.Fatalf("GenerateForm: %v", err)
	}

	qs := result.Form.Pages[0].Sections[0].Questions
	if string(qs[0].Validators) != `[{"type": "js_expression"}]` {
		t.Fatalf("validators = %s", qs[0].Validators)
	}
	// The JSON literal null and unparseable cells alike leave the field unset.
	if qs[1].Validators != nil {
		t.Fatalf("null validation kept: %s", qs[1].Validators)
	}
	if qs[2].Validators != nil {
		t.Fatalf("malformed validation kept: %s", qs[2].Validators)
	}
}

func TestGenerateFormRunsAreIsolated(t *testing.T) {
	gen := newTestGenerator()
	first, err := gen.GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := gen.GenerateForm("F01 Test", testRows())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := json.Marshal(first.Form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second.Form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("repeated runs differ:\n%s\n%s", a, b)
	}
}

func TestGenerateFormErrors(t *testing.T) {
	if _, err := generator.New().GenerateForm("F03", nil); !errors.Is(err, generator.ErrNoRows) {
		t.Fatalf("empty sheet error = %v", err)
	}

	rows := []metadata.Row{{Question: "Sex", Rendering: "radio", OptionSet: "Sex", Page: "P", Section: "S"}}
	_, err := generator.New().GenerateForm("F03", rows)
	if !errors.Is(err, generator.ErrOptionSetsNotLoaded) {
		t.Fatalf("missing table error = %v", err)
	}
	var sheetErr *generator.SheetError
	if !errors.As(err, &sheetErr) || sheetErr.Sheet != "F03" {
		t.Fatalf("sheet not carried on error: %v", err)
	}
}
