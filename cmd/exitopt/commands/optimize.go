package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/optionslab/exitopt/internal/optimizer"
	"github.com/optionslab/exitopt/pkg/config"
	"github.com/optionslab/exitopt/pkg/reporting"
)

var (
	configPath string
	outPath    string
	topN       int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid search the exit-rule space for the best configuration",
	Long: `Enumerates every admissible combination of the configured stop-loss,
take-profit and trailing-stop candidates, evaluates each rule against the
full trade history, and ranks the survivors by total simulated P/L.

Example:
  exitopt optimize --trades trades.csv --config rules.yaml --out results.xlsx`,
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVar(&configPath, "config", os.Getenv("EXITOPT_CONFIG"), "search-space config file (YAML or JSON)")
	optimizeCmd.Flags().StringVar(&outPath, "out", "", "export path (.csv or .xlsx); a directory gets a generated name")
	optimizeCmd.Flags().IntVar(&topN, "top", 20, "number of ranked rules to print")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	trades, err := loadTrades()
	if err != nil {
		return err
	}

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
	}

	results, summary, err := optimizer.New(cfg).Run(cmd.Context(), trades)
	if err != nil {
		return fmt.Errorf("grid search aborted: %w", err)
	}
	log.Info().
		Int64("evaluated", summary.Evaluated).
		Int64("skipped", summary.Skipped).
		Int64("rejected", summary.Rejected).
		Int("retained", summary.Retained).
		Dur("elapsed", summary.Elapsed).
		Msg("grid search complete")

	reporting.NewConsoleReporter().PrintScenarios(results, topN)

	if outPath == "" {
		return nil
	}
	target := resolveOutPath(outPath, "scenarios", ".xlsx")
	switch strings.ToLower(filepath.Ext(target)) {
	case ".xlsx":
		err = reporting.NewExcelReporter().WriteWorkbook(results, nil, nil, target)
	default:
		err = reporting.WriteScenariosCSV(results, target)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Info().Str("file", target).Msg("results exported")
	return nil
}

// resolveOutPath turns a directory (or extension-less) --out value into a
// generated, collision-free file name.
func resolveOutPath(out, kind, defaultExt string) string {
	if info, err := os.Stat(out); (err == nil && info.IsDir()) || filepath.Ext(out) == "" {
		name := fmt.Sprintf("exitopt_%s_%s%s", kind, ulid.Make().String(), defaultExt)
		return filepath.Join(out, name)
	}
	return out
}
