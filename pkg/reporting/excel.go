package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/optionslab/exitopt/internal/clustering"
	"github.com/optionslab/exitopt/internal/optimizer"
)

// ExcelReporter writes a full analysis workbook: ranked scenarios, clusters
// and the optimal-TP table on separate sheets.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// WriteWorkbook writes the workbook to path. Nil sections are skipped, so
// the grid and clustering paths can each export their own slice of the
// analysis.
func (r *ExcelReporter) WriteWorkbook(results []optimizer.ScenarioResult, clusters []clustering.Cluster, rows []clustering.TPRow, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	headerStyle, err := fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	const scenarioSheet = "Scenarios"
	fx.SetSheetName(fx.GetSheetName(0), scenarioSheet)
	if err := r.writeScenarioSheet(fx, scenarioSheet, headerStyle, results); err != nil {
		return err
	}

	if len(clusters) > 0 {
		const clusterSheet = "Clusters"
		if _, err := fx.NewSheet(clusterSheet); err != nil {
			return err
		}
		if err := r.writeClusterSheet(fx, clusterSheet, headerStyle, clusters); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		const tableSheet = "Optimal TP"
		if _, err := fx.NewSheet(tableSheet); err != nil {
			return err
		}
		if err := r.writeTPTableSheet(fx, tableSheet, headerStyle, rows); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) writeScenarioSheet(fx *excelize.File, sheet string, style int, results []optimizer.ScenarioResult) error {
	header := []interface{}{"Rank", "Rule", "Total PL", "Capture Rate", "Total Return %", "Win Rate %", "Max Drawdown %", "Trade Count"}
	if err := writeHeader(fx, sheet, style, header); err != nil {
		return err
	}
	for i, res := range results {
		row := []interface{}{
			i + 1,
			res.Rule.Label(),
			res.TotalPL,
			res.CaptureRate,
			res.TotalReturnPct,
			res.WinRate,
			res.MaxDrawdownPct,
			res.TradeCount,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return fx.SetColWidth(sheet, "B", "B", 40)
}

func (r *ExcelReporter) writeClusterSheet(fx *excelize.File, sheet string, style int, clusters []clustering.Cluster) error {
	header := []interface{}{"ID", "Trade Count", "Avg MFE %", "Avg MAE %", "Avg Efficiency %", "Win Rate %", "Optimal TP %", "Potential Improvement %", "Strategies"}
	if err := writeHeader(fx, sheet, style, header); err != nil {
		return err
	}
	for i, c := range clusters {
		strategies := ""
		for j, s := range c.Strategies {
			if j > 0 {
				strategies += ", "
			}
			strategies += s
		}
		row := []interface{}{
			c.ID, c.TradeCount, c.AvgMFE, c.AvgMAE, c.AvgEfficiency,
			c.WinRate, c.OptimalTP, c.PotentialImprovement, strategies,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReporter) writeTPTableSheet(fx *excelize.File, sheet string, style int, rows []clustering.TPRow) error {
	header := make([]interface{}, len(tpTableHeader))
	for i, h := range tpTableHeader {
		header[i] = h
	}
	if err := writeHeader(fx, sheet, style, header); err != nil {
		return err
	}
	for i, row := range rows {
		record := []interface{}{
			row.Strategy, row.TradeCount, row.CurrentTP, row.OptimalTP,
			row.ExpectedImprovement, row.WinRate, row.Efficiency,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &record); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(fx *excelize.File, sheet string, style int, header []interface{}) error {
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	return fx.SetCellStyle(sheet, "A1", end, style)
}
