package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/optionslab/exitopt/internal/clustering"
	"github.com/optionslab/exitopt/pkg/reporting"
)

var (
	clusterCount   int
	clusterOutPath string
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster trades by excursion behavior and recommend exits",
	Long: `Groups trades into behavioral segments over (MFE%, MAE%, efficiency%),
sweeps a take-profit ladder through each segment, and emits per-segment exit
recommendations plus a flattened per-strategy optimal-TP table.

The clustering pass is a stratified-seed nearest-centroid heuristic:
deterministic for identical input order, but reordering the trade history
can change segment boundaries.

Example:
  exitopt cluster --trades trades.csv --clusters 4 --out tp_table.csv`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().IntVar(&clusterCount, "clusters", 4, "target number of behavioral segments")
	clusterCmd.Flags().StringVar(&clusterOutPath, "out", "", "export path (.csv, .json or .xlsx)")
}

func runCluster(cmd *cobra.Command, args []string) error {
	trades, err := loadTrades()
	if err != nil {
		return err
	}

	opts := clustering.DefaultOptions()
	opts.Clusters = clusterCount
	clusters := clustering.ClusterTrades(trades, opts)
	insights, rows, combinations := clustering.GenerateInsights(trades, clusters)
	log.Info().
		Int("clusters", len(clusters)).
		Int("combinations", combinations).
		Msg("clustering complete")

	console := reporting.NewConsoleReporter()
	console.PrintClusters(clusters)
	console.PrintInsights(insights)

	if clusterOutPath == "" {
		return nil
	}
	target := resolveOutPath(clusterOutPath, "tp_table", ".csv")
	switch strings.ToLower(filepath.Ext(target)) {
	case ".json":
		err = reporting.WriteTPTableJSON(rows, combinations, len(trades), target)
	case ".xlsx":
		err = reporting.NewExcelReporter().WriteWorkbook(nil, clusters, rows, target)
	default:
		err = reporting.WriteTPTableCSV(rows, target)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Info().Str("file", target).Msg("optimal-TP table exported")
	return nil
}
