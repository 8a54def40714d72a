package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/optionslab/exitopt/internal/clustering"
	"github.com/optionslab/exitopt/internal/optimizer"
)

// tpTableHeader is the fixed column order of the optimal-TP export.
var tpTableHeader = []string{
	"Strategy",
	"Trade Count",
	"Current TP %",
	"Optimal TP %",
	"Expected Improvement %",
	"Win Rate %",
	"Efficiency %",
}

// WriteTPTableCSV writes the flattened optimal-TP table to path.
func WriteTPTableCSV(rows []clustering.TPRow, path string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(tpTableHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Strategy,
			strconv.Itoa(row.TradeCount),
			fmt.Sprintf("%.1f", row.CurrentTP),
			fmt.Sprintf("%.1f", row.OptimalTP),
			fmt.Sprintf("%.1f", row.ExpectedImprovement),
			fmt.Sprintf("%.1f", row.WinRate),
			fmt.Sprintf("%.1f", row.Efficiency),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteScenariosCSV writes the ranked scenario list to path.
func WriteScenariosCSV(results []optimizer.ScenarioResult, path string) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Rank", "Rule", "Total PL", "Capture Rate", "Total Return %", "Win Rate %", "Max Drawdown %", "Trade Count"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, res := range results {
		record := []string{
			strconv.Itoa(i + 1),
			res.Rule.Label(),
			fmt.Sprintf("%.2f", res.TotalPL),
			fmt.Sprintf("%.4f", res.CaptureRate),
			fmt.Sprintf("%.2f", res.TotalReturnPct),
			fmt.Sprintf("%.2f", res.WinRate),
			fmt.Sprintf("%.2f", res.MaxDrawdownPct),
			strconv.Itoa(res.TradeCount),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	return os.Create(path)
}
