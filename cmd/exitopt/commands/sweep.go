package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/optionslab/exitopt/internal/simulation"
	"github.com/optionslab/exitopt/pkg/reporting"
	"github.com/optionslab/exitopt/pkg/types"
)

var sweepBasis string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep single-level take-profit candidates against the history",
	Long: `Evaluates a flat, single-level take-profit rule at every auto-generated
candidate level (observed MFE deciles plus a fixed anchor ladder) and prints
the per-level aggregates next to the what-actually-happened baseline.

Example:
  exitopt sweep --trades trades.csv --basis premium`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepBasis, "basis", "margin", "capital basis: margin or premium")
}

func runSweep(cmd *cobra.Command, args []string) error {
	basis := types.Basis(sweepBasis)
	if basis != types.BasisMargin && basis != types.BasisPremium {
		return fmt.Errorf("basis must be 'margin' or 'premium', got: %q", sweepBasis)
	}

	trades, err := loadTrades()
	if err != nil {
		return err
	}

	candidates := simulation.AutoTPCandidates(trades)
	log.Debug().Int("candidates", len(candidates)).Msg("generated TP candidates")

	baseline := simulation.Baseline(trades, basis)
	sweep := make([]simulation.FlatTPMetrics, len(candidates))
	for i, tp := range candidates {
		sweep[i] = simulation.SimulateFlatTP(trades, basis, tp)
	}

	reporting.NewConsoleReporter().PrintSweep(baseline, sweep)
	return nil
}
