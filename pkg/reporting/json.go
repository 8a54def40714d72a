package reporting

import (
	"encoding/json"
	"time"

	"github.com/optionslab/exitopt/internal/clustering"
)

// TPTableExport is the JSON envelope of the optimal-TP table.
type TPTableExport struct {
	GeneratedAt       string             `json:"generated_at"`
	TotalCombinations int                `json:"total_combinations"`
	TotalTrades       int                `json:"total_trades"`
	Data              []clustering.TPRow `json:"data"`
}

// WriteTPTableJSON writes the optimal-TP table with its envelope to path.
func WriteTPTableJSON(rows []clustering.TPRow, combinations, totalTrades int, path string) error {
	export := TPTableExport{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		TotalCombinations: combinations,
		TotalTrades:       totalTrades,
		Data:              rows,
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
