package reporting

import (
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/optionslab/exitopt/internal/clustering"
	"github.com/optionslab/exitopt/internal/optimizer"
	"github.com/optionslab/exitopt/internal/simulation"
)

// ConsoleReporter renders engine output as terminal tables.
type ConsoleReporter struct{}

// NewConsoleReporter creates a new console reporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

// PrintScenarios renders the top-N ranked scenarios.
func (r *ConsoleReporter) PrintScenarios(results []optimizer.ScenarioResult, topN int) {
	if len(results) == 0 {
		fmt.Println("No scenarios satisfied the configured constraints.")
		return
	}
	if topN <= 0 || topN > len(results) {
		topN = len(results)
	}

	t := newTable("Ranked Exit Rules")
	t.AppendHeader(table.Row{"#", "Rule", "Total P/L", "Capture", "Return %", "Win %", "Max DD %", "Trades"})
	for i, res := range results[:topN] {
		t.AppendRow(table.Row{
			i + 1,
			res.Rule.Label(),
			fmt.Sprintf("$%.2f", res.TotalPL),
			fmt.Sprintf("%.3f", res.CaptureRate),
			fmt.Sprintf("%.2f", res.TotalReturnPct),
			fmt.Sprintf("%.1f", res.WinRate),
			fmt.Sprintf("%.2f", res.MaxDrawdownPct),
			res.TradeCount,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()
}

// PrintClusters renders the behavioral segments.
func (r *ConsoleReporter) PrintClusters(clusters []clustering.Cluster) {
	if len(clusters) == 0 {
		fmt.Println("No clusters (empty trade set).")
		return
	}
	t := newTable("Behavioral Clusters")
	t.AppendHeader(table.Row{"ID", "Trades", "Avg MFE %", "Avg MAE %", "Efficiency %", "Win %", "Optimal TP %", "Strategies"})
	for _, c := range clusters {
		t.AppendRow(table.Row{
			c.ID, c.TradeCount,
			fmt.Sprintf("%.1f", c.AvgMFE),
			fmt.Sprintf("%.1f", c.AvgMAE),
			fmt.Sprintf("%.1f", c.AvgEfficiency),
			fmt.Sprintf("%.1f", c.WinRate),
			fmt.Sprintf("%.0f", c.OptimalTP),
			joinCapped(c.Strategies, 3),
		})
	}
	t.Render()
}

// PrintInsights renders one recommendation per cluster.
func (r *ConsoleReporter) PrintInsights(insights []clustering.Insight) {
	if len(insights) == 0 {
		return
	}
	t := newTable("Exit Recommendations")
	t.AppendHeader(table.Row{"Cluster", "Current TP %", "Optimal TP %", "Δ P/L", "Δ Eff %", "Diminishing TP %", "Trades", "Recommendation"})
	for _, in := range insights {
		t.AppendRow(table.Row{
			in.ClusterID,
			fmt.Sprintf("%.0f", in.CurrentTP),
			fmt.Sprintf("%.0f", in.OptimalTP),
			fmt.Sprintf("$%.2f", in.ExpectedDeltaPL),
			fmt.Sprintf("%.1f", in.EfficiencyDelta),
			fmt.Sprintf("%.0f", in.DiminishingTP),
			in.AffectedTrades,
			in.Recommendation,
		})
	}
	t.Render()
}

// PrintSweep renders the single-level TP sweep next to its baseline.
func (r *ConsoleReporter) PrintSweep(baseline simulation.FlatTPMetrics, sweep []simulation.FlatTPMetrics) {
	t := newTable("Single-Level TP Sweep")
	t.AppendHeader(table.Row{"TP %", "Total P/L", "Avg Ret %", "Win %", "Avg Win %", "Avg Loss %", "PF", "Expectancy"})
	t.AppendRow(sweepRow("actual", baseline))
	t.AppendSeparator()
	for _, m := range sweep {
		t.AppendRow(sweepRow(fmt.Sprintf("%.1f", m.TPPct), m))
	}
	t.Render()
}

func sweepRow(label string, m simulation.FlatTPMetrics) table.Row {
	pf := fmt.Sprintf("%.2f", m.ProfitFactor)
	if math.IsInf(m.ProfitFactor, 1) {
		pf = "inf"
	}
	return table.Row{
		label,
		fmt.Sprintf("$%.2f", m.TotalPL),
		fmt.Sprintf("%.2f", m.AvgReturnPct),
		fmt.Sprintf("%.1f", m.WinRate),
		fmt.Sprintf("%.2f", m.AvgWinPct),
		fmt.Sprintf("%.2f", m.AvgLossPct),
		pf,
		fmt.Sprintf("%.2f", m.Expectancy),
	}
}

func joinCapped(items []string, maxItems int) string {
	if len(items) <= maxItems {
		out := ""
		for i, s := range items {
			if i > 0 {
				out += ", "
			}
			out += s
		}
		return out
	}
	return fmt.Sprintf("%s, … (%d total)", joinCapped(items[:maxItems], maxItems), len(items))
}
