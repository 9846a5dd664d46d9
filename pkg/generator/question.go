package generator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/clinsheet/formgen/pkg/form"
	"github.com/clinsheet/formgen/pkg/metadata"
	"github.com/clinsheet/formgen/pkg/normalize"
	"github.com/clinsheet/formgen/pkg/skiplogic"
)

// externalIDNullMarker is the spreadsheet error value that means "no
// external id" despite the cell being non-empty.
const externalIDNullMarker = "#N/A"

// buildQuestion assembles one question from a row. It mutates run state:
// the registry gains the question's identifier and answers, the collector
// gains label translations, and missing option sets are appended to the
// run's report.
func (run *run) buildQuestion(row metadata.Row) form.Question {
	label := normalize.CleanDisplayLabel(row.Question)
	if strings.TrimSpace(row.Label) != "" {
		label = normalize.CleanDisplayLabel(row.Label)
	}

	var entries []metadata.OptionSetEntry
	optionSetFound := false
	if row.OptionSet != "" {
		entries, optionSetFound = run.optionSets.Resolve(row.OptionSet)
	}

	idSource := row.Question
	if strings.TrimSpace(row.QuestionID) != "" {
		idSource = row.QuestionID
	}
	id, idModified, originalLabel := run.registry.Issue(idSource, KindQuestion, "")

	concept := id
	if row.ExternalID != "" {
		concept = row.ExternalID
	}

	renderingValue := strings.ToLower(row.Rendering)
	if renderingValue == "" {
		renderingValue = "text"
	}
	rendering := normalizeRendering(renderingValue)

	question := form.Question{
		ID:       id,
		Label:    label,
		Type:     "obs",
		Required: strings.EqualFold(strings.TrimSpace(row.Mandatory), "true"),
	}
	question.Options = form.QuestionOptions{
		Rendering: rendering,
		Concept:   concept,
	}

	if rendering == "numeric" || rendering == "number" {
		if row.LowerLimit != "" {
			question.Options.Min = numericOrString(row.LowerLimit)
		}
		if row.UpperLimit != "" {
			question.Options.Max = numericOrString(row.UpperLimit)
		}
	}

	if rendersWorkspace(rendering) {
		question.Type = ""
		question.Options = form.QuestionOptions{
			Rendering:     "workspace-launcher",
			ButtonLabel:   workspaceButtonLabel(rendering),
			WorkspaceName: rendering,
		}
	}

	if renderingValue == "markdown" {
		question.Value = []string{"## " + label}
		question.Type = "markdown"
		question.Options.Concept = ""
	}

	if renderingValue == "inlinemulticheckbox" {
		question.InlineMultiCheckbox = true
	}
	switch renderingValue {
	case "decimalnumber":
		question.DisallowDecimals = boolPtr(false)
	case "number":
		question.DisallowDecimals = boolPtr(true)
	}

	run.translations.Record(label, cleanTranslation(row.TranslationQuestion))

	// A cell holding the JSON literal null is treated as absent, like a
	// cell that does not parse at all.
	if v := strings.TrimSpace(row.Validation); v != "" && v != "null" && json.Valid([]byte(v)) {
		question.Validators = json.RawMessage(v)
	}
	if row.Default != "" {
		question.Default = row.Default
	}
	if row.Tooltip != "" {
		question.Info = normalize.CleanDisplayLabel(row.Tooltip)
		run.translations.Record(question.Info, cleanTranslation(row.TranslationTooltip))
	}
	if row.Calculation != "" {
		question.Options.Calculate = &form.Calculation{CalculateExpression: row.Calculation}
	}
	if row.SkipLogic != "" {
		rewritten := run.registry.RewriteRenamedLabels(row.SkipLogic)
		question.Hide = &form.HideRule{HideWhenExpression: skiplogic.Compile(rewritten, run.registry)}
	}

	if idModified {
		question.IDModified = true
		question.OriginalLabel = originalLabel
		question.Warning = fmt.Sprintf("Question ID was modified from '%s' to ensure uniqueness", originalLabel)
		run.logger.Warn("question identifier renamed for uniqueness",
			zap.String("original", originalLabel),
			zap.String("id", id))
	}

	var answers []form.Answer
	if !optionSetFound && row.OptionSet != "" {
		question.OptionSetNotFound = true
		question.OptionSetName = row.OptionSet
		run.missing = append(run.missing, form.MissingOptionSet{
			QuestionID:    id,
			QuestionLabel: label,
			OptionSetName: row.OptionSet,
		})
		run.logger.Warn("option set not found",
			zap.String("optionSet", row.OptionSet),
			zap.String("question", label))

		// A placeholder answer keeps the form renderable while the miss is
		// reported out of band.
		placeholderConcept, _ := normalize.DeriveIdentifier(row.OptionSet)
		answers = []form.Answer{{
			Label:   fmt.Sprintf("[Missing OptionSet: %s]", row.OptionSet),
			Concept: "missing_optionset_" + placeholderConcept,
		}}
		question.Options.Placeholder = true
	}

	if optionSetFound {
		answers = make([]form.Answer, 0, len(entries))
		for _, entry := range entries {
			answers = append(answers, form.Answer{
				Label:   normalize.CleanDisplayLabel(entry.Answer),
				Concept: run.answerConcept(entry, id),
			})
			run.translations.Record(normalize.CleanDisplayLabel(entry.Answer), cleanTranslation(row.TranslationAnswer))
		}
	}

	run.registry.SetAnswers(id, answers)
	question.Options.Answers = answers
	return question
}

// answerConcept picks an answer's concept: the explicit external id when
// present and not the null marker, a plain derivation for null-marker
// entries, and a freshly issued answer identifier otherwise.
func (run *run) answerConcept(entry metadata.OptionSetEntry, questionID string) string {
	if entry.ExternalID == externalIDNullMarker {
		concept, _ := normalize.DeriveIdentifier(entry.Answer)
		return concept
	}
	if entry.ExternalID != "" {
		return entry.ExternalID
	}
	concept, _, _ := run.registry.Issue(entry.Answer, KindAnswer, questionID)
	return concept
}

// numericOrString keeps numeric bounds numeric in the output while letting
// non-numeric cell text pass through verbatim.
func numericOrString(raw string) any {
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return f
	}
	return raw
}

func boolPtr(v bool) *bool { return &v }
