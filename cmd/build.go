package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildAll    bool
	buildOutDir string
)

var buildCmd = &cobra.Command{
	Use:   "build [symbol...]",
	Short: "Write a valuation workbook for each symbol",
	Long:  "Builds <SYMBOL>.xlsx into the output directory for each given symbol, or for every stored symbol with --all.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if len(args) == 0 && !buildAll {
			return eris.New("build: pass at least one symbol or --all")
		}
		if buildOutDir != "" {
			cfg.Sheet.OutputDir = buildOutDir
		}

		env, err := initEnv(ctx, "build")
		if err != nil {
			return err
		}
		defer env.Close()

		symbols := args
		if buildAll {
			symbols, err = env.Store.ListSymbols(ctx)
			if err != nil {
				return eris.Wrap(err, "build: list symbols")
			}
		}
		if len(symbols) == 0 {
			zap.L().Info("no stored symbols to build")
			return nil
		}

		res, err := env.Report.WriteAll(ctx, symbols, cfg.Sheet.OutputDir, cfg.Build.MaxConcurrent)
		if err != nil {
			return err
		}
		if res.Failed > 0 {
			return eris.Errorf("build: %d of %d symbols failed", res.Failed, len(symbols))
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildAll, "all", false, "build every stored symbol")
	buildCmd.Flags().StringVar(&buildOutDir, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(buildCmd)
}
