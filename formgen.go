// Package formgen converts clinical form metadata spreadsheets into
// OpenMRS 3 form definition and translation JSON documents. The root package
// re-exports the primary entry points; the pkg subpackages hold the pipeline
// stages.
package formgen

import (
	"github.com/clinsheet/formgen/pkg/form"
	"github.com/clinsheet/formgen/pkg/generator"
	"github.com/clinsheet/formgen/pkg/metadata"
	"github.com/clinsheet/formgen/pkg/xlsx"
)

// Row is one spreadsheet record describing a single question.
type Row = metadata.Row

// ColumnMapping names the spreadsheet headers rows are read through.
type ColumnMapping = metadata.ColumnMapping

// Form is the generated form schema document.
type Form = form.Form

// TranslationDocument is the generated per-language label catalog.
type TranslationDocument = form.TranslationDocument

// Result is the outcome of generating one sheet.
type Result = generator.Result

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// SheetResult pairs a sheet name with its generation outcome. Err is set
// when that sheet failed; the rest of the batch is unaffected.
type SheetResult struct {
	Sheet  string
	Result *generator.Result
	Err    error
}

// GenerateWorkbook is the batch convenience entry point: it opens the
// workbook, reads the option sets, and generates every sheet whose name is
// listed. A failing sheet yields a SheetResult with Err set and the batch
// continues.
func GenerateWorkbook(path string, sheets []string, columns metadata.ColumnMapping, options ...generator.Option) ([]SheetResult, error) {
	reader, err := xlsx.Open(path, columns)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	table, err := reader.ReadOptionSets()
	if err != nil {
		return nil, err
	}
	gen := generator.New(append([]generator.Option{generator.WithOptionSets(table)}, options...)...)

	results := make([]SheetResult, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := reader.ReadRows(sheet)
		if err != nil {
			results = append(results, SheetResult{Sheet: sheet, Err: err})
			continue
		}
		res, err := gen.GenerateForm(sheet, rows)
		results = append(results, SheetResult{Sheet: sheet, Result: res, Err: err})
	}
	return results, nil
}
