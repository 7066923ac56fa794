package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/importer"
)

var (
	importXLSXPath string
	importSymbol   string
	importSheet    string
	importSkipRows int
)

var importCmd = &cobra.Command{
	Use:   "import [fixture.yaml...]",
	Short: "Load stock data into the store",
	Long:  "Imports YAML stock fixtures, or a metric table workbook with --xlsx and --symbol.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if importXLSXPath == "" && len(args) == 0 {
			return eris.New("import: pass fixture files or --xlsx")
		}
		if importXLSXPath != "" && importSymbol == "" {
			return eris.New("import: --symbol is required with --xlsx")
		}

		env, err := initEnv(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		return runImport(ctx, importer.New(env.Store), args)
	},
}

// runImport imports the workbook named by the flags, then every fixture.
func runImport(ctx context.Context, im *importer.Importer, fixtures []string) error {
	if importXLSXPath != "" {
		tbl, err := importer.ReadMetricWorkbook(importXLSXPath, importer.XLSXOptions{SheetName: importSheet, SkipRows: importSkipRows})
		if err != nil {
			return eris.Wrap(err, "import xlsx")
		}
		res, err := im.ImportTable(ctx, importSymbol, tbl)
		if err != nil {
			return eris.Wrap(err, "import xlsx")
		}
		zap.L().Info("import complete",
			zap.String("xlsx", importXLSXPath),
			zap.String("symbol", res.Symbol),
			zap.Int("metrics", res.Metrics),
			zap.Int("skipped_rows", tbl.Skipped),
		)
	}

	for _, path := range fixtures {
		snap, err := importer.ReadFixtureFile(path)
		if err != nil {
			return eris.Wrapf(err, "import fixture %s", path)
		}
		res, err := im.Import(ctx, snap)
		if err != nil {
			return eris.Wrapf(err, "import fixture %s", path)
		}
		zap.L().Info("import complete",
			zap.String("fixture", path),
			zap.String("symbol", res.Symbol),
			zap.Int("metrics", res.Metrics),
		)
	}
	return nil
}

func init() {
	importCmd.Flags().StringVar(&importXLSXPath, "xlsx", "", "path to a metric table workbook")
	importCmd.Flags().StringVar(&importSymbol, "symbol", "", "symbol the workbook belongs to")
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name in the workbook (default first sheet)")
	importCmd.Flags().IntVar(&importSkipRows, "skip-rows", 0, "leading workbook rows to ignore")
	rootCmd.AddCommand(importCmd)
}
