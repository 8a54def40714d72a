package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/optionslab/exitopt/internal/monitoring"
	"github.com/optionslab/exitopt/pkg/data"
	"github.com/optionslab/exitopt/pkg/types"
)

var (
	tradesPath  string
	verbose     bool
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "exitopt",
	Short: "Exit-rule optimization over MFE/MAE-annotated trade histories",
	Long: `exitopt simulates staged take-profit / trailing-stop / stop-loss rules
against a historical trade set annotated with maximum favorable and adverse
excursions, grid searches the configured rule space for the best-performing
configuration, and clusters trades by excursion behavior to produce
per-segment exit recommendations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().Timestamp().Logger()

		if metricsAddr != "" {
			go func() {
				if err := monitoring.Serve(metricsAddr); err != nil {
					log.Warn().Err(err).Str("addr", metricsAddr).Msg("metrics listener stopped")
				}
			}()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tradesPath, "trades", os.Getenv("EXITOPT_TRADES"), "path to the trade history CSV")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "expose prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(sweepCmd)
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}

func loadTrades() ([]types.ExcursionTrade, error) {
	if tradesPath == "" {
		return nil, fmt.Errorf("--trades is required (or set EXITOPT_TRADES)")
	}
	provider := data.NewCSVProvider()
	trades, err := provider.LoadTrades(tradesPath)
	if err != nil {
		return nil, err
	}
	log.Info().Int("trades", len(trades)).Str("file", tradesPath).Msg("trade history loaded")
	return trades, nil
}
