package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/stock-screener/internal/config"
)

var cfg *config.Config

// Flag overrides applied on top of config.yaml and SCREENER_* env vars.
var (
	flagDatabaseURL string
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Financial model workbooks for listed Vietnamese stocks",
	Long:  "Imports reported and forecast financials, compiles annual and quarterly tables with live formulas, and writes a P/E valuation workbook per stock.",
	Example: `  screener import testdata/hpg.yaml
  screener build HPG VNM --out models
  screener --db postgres://localhost/screener build --all
  screener serve --port 9090`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		if flagDatabaseURL != "" {
			cfg.Store.DatabaseURL = flagDatabaseURL
			if strings.HasPrefix(flagDatabaseURL, "postgres://") || strings.HasPrefix(flagDatabaseURL, "postgresql://") {
				cfg.Store.Driver = "postgres"
			}
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "db", "", "database path or postgres URL (overrides store.database_url)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (overrides log.level)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
