package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinsheet/formgen/pkg/xlsx"
)

var (
	sheetsFile    string
	sheetsShowAll bool
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the form sheets in a metadata workbook",
	RunE:  runSheets,
}

func init() {
	sheetsCmd.Flags().StringVarP(&sheetsFile, "file", "f", "", "metadata workbook path (defaults to METADATA_FILEPATH)")
	sheetsCmd.Flags().BoolVar(&sheetsShowAll, "all", false, "list every sheet, not only form sheets")
	rootCmd.AddCommand(sheetsCmd)
}

func runSheets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := workbookPath(sheetsFile)
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

	names := reader.FormSheets(cfg.CompileSheetPattern())
	if sheetsShowAll {
		names = reader.SheetNames()
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
