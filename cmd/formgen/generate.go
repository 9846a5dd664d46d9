package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clinsheet/formgen/pkg/generator"
	"github.com/clinsheet/formgen/pkg/xlsx"
)

var (
	metadataFile string
	outputDir    string
	allSheets    bool
	interactive  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [sheet...]",
	Short: "Generate form and translation documents",
	Long: `Generate form and translation JSON documents for the named sheets.

Without arguments every sheet matching the configured form pattern is
generated; --interactive opens a multi-select prompt instead. A sheet that
fails does not stop the batch; its error is reported and the remaining
sheets are still generated.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&metadataFile, "file", "f", "", "metadata workbook path (defaults to METADATA_FILEPATH)")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "generated_forms", "directory the JSON documents are written to")
	generateCmd.Flags().BoolVar(&allSheets, "all", false, "generate every form sheet without prompting")
	generateCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick sheets from a multi-select prompt")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := workbookPath(metadataFile)
	if err != nil {
		return err
	}

	reader, err := xlsx.Open(path, cfg.Columns,
		xlsx.WithLogger(logger),
		xlsx.WithHeaderRow(cfg.HeaderRow),
		xlsx.WithOptionSetsSheet(cfg.OptionSetsSheet))
	if err != nil {
		return err
	}
	defer reader.Close()

	formSheets := reader.FormSheets(cfg.CompileSheetPattern())
	if len(formSheets) == 0 {
		return fmt.Errorf("no sheets match pattern %q in %q", cfg.SheetPattern, path)
	}
	selected, err := selectSheets(args, formSheets)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return errors.New("no sheets selected")
	}

	table, err := reader.ReadOptionSets()
	if err != nil {
		if !errors.Is(err, xlsx.ErrSheetNotFound) {
			return err
		}
		logger.Warn("workbook has no option set sheet; questions with option sets will fail",
			zap.String("sheet", cfg.OptionSetsSheet))
	}

	gen := generator.New(
		generator.WithOptionSets(table),
		generator.WithLogger(logger),
		generator.WithLanguage(cfg.Language),
		generator.WithDescriptionPrefix(cfg.DescriptionPrefix),
		generator.WithEncounter(cfg.Encounter),
	)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	failed := 0
	for _, sheet := range selected {
		if err := generateSheet(gen, reader, sheet, cfg.Language); err != nil {
			logger.Error("sheet failed", zap.String("sheet", sheet), zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sheets failed", failed, len(selected))
	}
	return nil
}

func generateSheet(gen *generator.Generator, reader *xlsx.Reader, sheet, language string) error {
	start := time.Now()
	rows, err := reader.ReadRows(sheet)
	if err != nil {
		return err
	}
	result, err := gen.GenerateForm(sheet, rows)
	if err != nil {
		return err
	}

	formJSON, err := marshalDocument(result.Form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	translationJSON, err := marshalDocument(result.Translations)
	if err != nil {
		return fmt.Errorf("encode translations: %w", err)
	}

	base := strings.ReplaceAll(sheet, " ", "_")
	formPath := filepath.Join(outputDir, base+".json")
	translationPath := filepath.Join(outputDir, fmt.Sprintf("%s_translations_%s.json", base, language))
	if err := os.WriteFile(formPath, formJSON, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(translationPath, translationJSON, 0o644); err != nil {
		return err
	}

	logger.Info("sheet generated",
		zap.String("sheet", sheet),
		zap.Int("pages", len(result.Form.Pages)),
		zap.Int("questions", result.QuestionCount),
		zap.Int("answers", result.AnswerCount),
		zap.Int("missingOptionSets", len(result.MissingOptionSets)),
		zap.Int("formBytes", len(formJSON)),
		zap.Int("translationBytes", len(translationJSON)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// selectSheets picks which form sheets to generate: explicit arguments win,
// then --all, then the interactive prompt, then everything.
func selectSheets(args, formSheets []string) ([]string, error) {
	if len(args) > 0 {
		known := map[string]bool{}
		for _, s := range formSheets {
			known[s] = true
		}
		for _, s := range args {
			if !known[s] {
				return nil, fmt.Errorf("sheet %q is not a form sheet (known: %s)", s, strings.Join(formSheets, ", "))
			}
		}
		return args, nil
	}
	if allSheets || !interactive {
		return formSheets, nil
	}

	var picked []string
	prompt := &survey.MultiSelect{
		Message: "Select sheets to generate forms for:",
		Options: formSheets,
		Default: formSheets,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return nil, err
	}
	return picked, nil
}

// marshalDocument renders a document the way the output files expect it:
// two-space indentation and no HTML escaping, so labels like "> 5" survive
// verbatim.
func marshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
