package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clinsheet/formgen/pkg/config"
)

var (
	cfgPath string
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formgen",
	Short: "Generate OpenMRS 3 form definitions from spreadsheet metadata",
	Long: `formgen reads clinical form metadata out of an Excel workbook and
produces the OpenMRS 3 form definition and translation JSON documents.

Each form sheet becomes one <Sheet_Name>.json form document plus one
<Sheet_Name>_translations_<lang>.json translation document. Answer lists are
resolved from the workbook's OptionSets sheet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	// A .env file may carry METADATA_FILEPATH; absence is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML settings file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(cfgPath)
}

// workbookPath resolves the metadata workbook from the flag or the
// METADATA_FILEPATH environment variable.
func workbookPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("METADATA_FILEPATH"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no metadata workbook: pass --file or set METADATA_FILEPATH")
}
