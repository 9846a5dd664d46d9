// Package generator turns sheet rows into complete form and translation
// documents. Each GenerateForm call is an isolated run: identifier
// uniqueness and collected translations never leak across sheets.
package generator

import (
	"go.uber.org/zap"

	"github.com/clinsheet/formgen/pkg/form"
	"github.com/clinsheet/formgen/pkg/metadata"
)

const (
	defaultLanguage          = "ar"
	defaultDescriptionPrefix = "MSF Form - "
	defaultEncounter         = "Consultation"
	formProcessor            = "EncounterFormProcessor"
	formVersion              = "1"
)

// Generator builds form documents from metadata rows. It is safe to reuse
// across sheets; all per-sheet state lives in the run.
type Generator struct {
	optionSets        *metadata.OptionSetTable
	logger            *zap.Logger
	language          string
	descriptionPrefix string
	encounter         string
}

// New returns a Generator with the stock form constants applied, then
// adjusted by opts.
func New(opts ...Option) *Generator {
	g := &Generator{
		logger:            zap.NewNop(),
		language:          defaultLanguage,
		descriptionPrefix: defaultDescriptionPrefix,
		encounter:         defaultEncounter,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of generating one sheet.
type Result struct {
	Form              form.Form
	Translations      form.TranslationDocument
	QuestionCount     int
	AnswerCount       int
	MissingOptionSets []form.MissingOptionSet
}

// pageGroup accumulates a page's sections while rows stream in.
type pageGroup struct {
	label        string
	sections     []form.Section
	sectionIndex map[string]int
}

// run carries the mutable state of a single GenerateForm call.
type run struct {
	registry     *Registry
	translations *TranslationCollector
	optionSets   *metadata.OptionSetTable
	logger       *zap.Logger
	missing      []form.MissingOptionSet
}

// GenerateForm builds the form document for one sheet. Page and section
// order follows first occurrence in rows; rows without question text only
// contribute to grouping. Rows referencing option sets require the table to
// have been supplied at construction.
func (g *Generator) GenerateForm(sheetName string, rows []metadata.Row) (*Result, error) {
	if len(rows) == 0 {
		return nil, &SheetError{Sheet: sheetName, Err: ErrNoRows}
	}
	if g.optionSets == nil {
		for _, row := range rows {
			if row.OptionSet != "" {
				return nil, &SheetError{Sheet: sheetName, Err: ErrOptionSetsNotLoaded}
			}
		}
	}

	r := &run{
		registry:     NewRegistry(),
		translations: NewTranslationCollector(g.logger),
		optionSets:   g.optionSets,
		logger:       g.logger.With(zap.String("sheet", sheetName)),
	}

	doc := form.Form{
		Name:            sheetName,
		Description:     g.descriptionPrefix + sheetName,
		Version:         formVersion,
		Published:       true,
		UUID:            "",
		Processor:       formProcessor,
		Encounter:       g.encounter,
		Retired:         false,
		ReferencedForms: []any{},
		Pages:           []form.Page{},
	}

	result := &Result{}

	// Pages and sections group by label in first-occurrence order. A label
	// that reappears later folds back into its existing group.
	var pages []*pageGroup
	pageIndex := map[string]int{}
	currentPage, currentSection := "", ""

	for _, row := range rows {
		if row.Page != "" {
			currentPage = row.Page
			currentSection = ""
		}
		if row.Section != "" && row.Section != currentSection {
			currentSection = row.Section
			r.translations.Record(row.Section, cleanTranslation(row.TranslationSection))
		}
		// A placed row registers its page and section group even when it has
		// no question text, so header-only sections still appear in output.
		placed := currentPage != "" && currentSection != ""
		var pg *pageGroup
		var si int
		if placed {
			pi, ok := pageIndex[currentPage]
			if !ok {
				pi = len(pages)
				pageIndex[currentPage] = pi
				pages = append(pages, &pageGroup{
					label:        currentPage,
					sectionIndex: map[string]int{},
				})
			}
			pg = pages[pi]
			si, ok = pg.sectionIndex[currentSection]
			if !ok {
				si = len(pg.sections)
				pg.sectionIndex[currentSection] = si
				pg.sections = append(pg.sections, form.Section{
					Label:      currentSection,
					IsExpanded: false,
					Questions:  []form.Question{},
				})
			}
		}
		if !row.HasQuestion() {
			continue
		}
		if !placed {
			r.logger.Warn("question outside any page or section skipped",
				zap.String("question", row.Question))
			continue
		}

		question := r.buildQuestion(row)
		pg.sections[si].Questions = append(pg.sections[si].Questions, question)
		result.QuestionCount++
		result.AnswerCount += len(question.Options.Answers)
	}

	for _, pg := range pages {
		doc.Pages = append(doc.Pages, form.Page{Label: pg.label, Sections: pg.sections})
	}

	result.Form = doc
	result.Translations = form.NewTranslationDocument(sheetName, g.language, r.translations.Snapshot())
	result.MissingOptionSets = r.missing

	r.logger.Info("form generated",
		zap.Int("questions", result.QuestionCount),
		zap.Int("answers", result.AnswerCount),
		zap.Int("missingOptionSets", len(result.MissingOptionSets)))
	return result, nil
}
