// Package xlsx reads question metadata out of an Excel workbook. It maps
// named header columns onto typed rows, drops struck-through rows, and
// surfaces the workbook's sheets so callers can pick which forms to build.
package xlsx

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/clinsheet/formgen/pkg/metadata"
)

var (
	// ErrSheetNotFound means the requested sheet does not exist in the
	// workbook.
	ErrSheetNotFound = errors.New("xlsx: sheet not found")

	// ErrMissingQuestionColumn means the header row lacks the configured
	// question column, without which rows cannot be interpreted.
	ErrMissingQuestionColumn = errors.New("xlsx: question column not found")
)

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the structured logger for read diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHeaderRow sets the 1-based row the column headers live on.
// Defaults to 2; row 1 typically holds a human title banner.
func WithHeaderRow(row int) Option {
	return func(r *Reader) {
		if row > 0 {
			r.headerRow = row
		}
	}
}

// WithOptionSetsSheet overrides the name of the option set sheet.
func WithOptionSetsSheet(name string) Option {
	return func(r *Reader) {
		if name != "" {
			r.optionSheet = name
		}
	}
}

// Reader reads typed metadata rows from one workbook. It is not safe for
// concurrent use; the underlying file handle is shared across calls.
type Reader struct {
	file        *excelize.File
	columns     metadata.ColumnMapping
	logger      *zap.Logger
	headerRow   int
	optionSheet string
}

// Open opens the workbook at path and validates the column mapping the rows
// will be read through. The caller must Close the reader.
func Open(path string, columns metadata.ColumnMapping, opts ...Option) (*Reader, error) {
	if err := columns.Validate(); err != nil {
		return nil, err
	}
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", path, err)
	}
	r := &Reader{
		file:        file,
		columns:     columns,
		logger:      zap.NewNop(),
		headerRow:   2,
		optionSheet: "OptionSets",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the workbook handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// SheetNames lists the workbook's sheets in workbook order.
func (r *Reader) SheetNames() []string {
	return r.file.GetSheetList()
}

// FormSheets lists the sheets whose names match pattern, in workbook order.
func (r *Reader) FormSheets(pattern *regexp.Regexp) []string {
	var sheets []string
	for _, name := range r.file.GetSheetList() {
		if pattern.MatchString(name) {
			sheets = append(sheets, name)
		}
	}
	return sheets
}

// ReadRows reads the question rows of one form sheet. Rows whose question
// cell carries strike-through formatting are dropped; duplicate headers are
// disambiguated so only the first occurrence of a column name is read.
func (r *Reader) ReadRows(sheet string) ([]metadata.Row, error) {
	cells, headers, err := r.sheetData(sheet)
	if err != nil {
		return nil, err
	}

	questionCol := columnIndex(headers, r.columns.Question)
	if questionCol < 0 {
		return nil, fmt.Errorf("%w: %q in sheet %q", ErrMissingQuestionColumn, r.columns.Question, sheet)
	}

	col := func(name string) int { return columnIndex(headers, name) }
	indexes := map[string]int{
		"label":       col(r.columns.Label),
		"questionID":  col(r.columns.QuestionID),
		"externalID":  col(r.columns.ExternalID),
		"datatype":    col(r.columns.Datatype),
		"validation":  col(r.columns.Validation),
		"mandatory":   col(r.columns.Mandatory),
		"rendering":   col(r.columns.Rendering),
		"lowerLimit":  col(r.columns.LowerLimit),
		"upperLimit":  col(r.columns.UpperLimit),
		"default":     col(r.columns.Default),
		"calculation": col(r.columns.Calculation),
		"skipLogic":   col(r.columns.SkipLogic),
		"page":        col(r.columns.Page),
		"section":     col(r.columns.Section),
		"optionSet":   col(r.columns.OptionSet),
		"tooltip":     col(r.columns.Tooltip),
		"trQuestion":  col(r.columns.TranslationQuestion),
		"trSection":   col(r.columns.TranslationSection),
		"trTooltip":   col(r.columns.TranslationTooltip),
		"trAnswer":    col(r.columns.TranslationAnswer),
	}

	var rows []metadata.Row
	for i := r.headerRow; i < len(cells); i++ {
		if r.cellStruck(sheet, questionCol, i+1) {
			r.logger.Debug("struck-through row skipped",
				zap.String("sheet", sheet), zap.Int("row", i+1))
			continue
		}
		line := cells[i]
		pick := func(key string) string { return cellAt(line, indexes[key]) }
		rows = append(rows, metadata.Row{
			Question:            cellAt(line, questionCol),
			Label:               pick("label"),
			QuestionID:          pick("questionID"),
			ExternalID:          pick("externalID"),
			Datatype:            pick("datatype"),
			Validation:          pick("validation"),
			Mandatory:           pick("mandatory"),
			Rendering:           pick("rendering"),
			LowerLimit:          pick("lowerLimit"),
			UpperLimit:          pick("upperLimit"),
			Default:             pick("default"),
			Calculation:         pick("calculation"),
			SkipLogic:           pick("skipLogic"),
			Page:                pick("page"),
			Section:             pick("section"),
			OptionSet:           pick("optionSet"),
			Tooltip:             pick("tooltip"),
			TranslationQuestion: pick("trQuestion"),
			TranslationSection:  pick("trSection"),
			TranslationTooltip:  pick("trTooltip"),
			TranslationAnswer:   pick("trAnswer"),
		})
	}
	return rows, nil
}

// ReadOptionSets reads the option set sheet into a resolvable table. Any
// struck-through cell drops the whole row. A non-numeric order value is
// kept as an unordered entry and logged.
func (r *Reader) ReadOptionSets() (*metadata.OptionSetTable, error) {
	cells, headers, err := r.sheetData(r.optionSheet)
	if err != nil {
		return nil, err
	}

	nameCol := columnIndex(headers, r.columns.OptionSet)
	answerCol := columnIndex(headers, r.columns.Answer)
	orderCol := columnIndex(headers, r.columns.Order)
	externalCol := columnIndex(headers, r.columns.ExternalID)
	if nameCol < 0 || answerCol < 0 {
		return nil, fmt.Errorf("xlsx: sheet %q is missing the %q or %q column",
			r.optionSheet, r.columns.OptionSet, r.columns.Answer)
	}

	var entries []metadata.OptionSetEntry
	for i := r.headerRow; i < len(cells); i++ {
		if r.anyCellStruck(r.optionSheet, len(headers), i+1) {
			r.logger.Debug("struck-through option row skipped",
				zap.String("sheet", r.optionSheet), zap.Int("row", i+1))
			continue
		}
		line := cells[i]
		entry := metadata.OptionSetEntry{
			OptionSet:  cellAt(line, nameCol),
			Answer:     cellAt(line, answerCol),
			ExternalID: cellAt(line, externalCol),
		}
		if entry.OptionSet == "" && entry.Answer == "" {
			continue
		}
		if raw := cellAt(line, orderCol); raw != "" {
			order, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				r.logger.Warn("option order is not numeric",
					zap.String("optionSet", entry.OptionSet),
					zap.String("order", raw))
			} else {
				entry.Order = &order
			}
		}
		entries = append(entries, entry)
	}
	return metadata.NewOptionSetTable(entries), nil
}

// sheetData loads a sheet's cell text and its disambiguated header row.
func (r *Reader) sheetData(sheet string) ([][]string, []string, error) {
	if idx, err := r.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	cells, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if len(cells) < r.headerRow {
		return nil, nil, fmt.Errorf("xlsx: sheet %q has no header row %d", sheet, r.headerRow)
	}
	headers := dedupeHeaders(cells[r.headerRow-1])
	return cells, headers, nil
}

// cellStruck reports whether the cell at (col, row) uses a strike-through
// font. col is 0-based, row is 1-based.
func (r *Reader) cellStruck(sheet string, col, row int) bool {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return false
	}
	styleID, err := r.file.GetCellStyle(sheet, name)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := r.file.GetStyle(styleID)
	if err != nil || style == nil || style.Font == nil {
		return false
	}
	return style.Font.Strike
}

// anyCellStruck reports whether any of the first width cells on row carries
// a strike-through font.
func (r *Reader) anyCellStruck(sheet string, width, row int) bool {
	for col := 0; col < width; col++ {
		if r.cellStruck(sheet, col, row) {
			return true
		}
	}
	return false
}

// dedupeHeaders suffixes repeated header names with their occurrence index
// so the first occurrence keeps the plain name and wins column lookups.
func dedupeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := map[string]int{}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		n := seen[h]
		seen[h] = n + 1
		if n > 0 && h != "" {
			h = fmt.Sprintf("%s_%d", h, n)
		}
		out[i] = h
	}
	return out
}

func columnIndex(headers []string, name string) int {
	if strings.TrimSpace(name) == "" {
		return -1
	}
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// cellAt returns the trimmed cell text at col, tolerating the short rows
// GetRows produces when trailing cells are empty.
func cellAt(line []string, col int) string {
	if col < 0 || col >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[col])
}
