package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/optionslab/exitopt/pkg/types"
)

// Expected columns of a trade history file. Column order is free; matching
// is by (case-insensitive) header name.
const (
	colTradeID      = "trade_id"
	colStrategy     = "strategy"
	colOpened       = "opened"
	colPL           = "pl"
	colMarginReq    = "margin_req"
	colPremium      = "premium"
	colMaxProfitPct = "max_profit_pct"
	colMaxLossPct   = "max_loss_pct"
)

var dateFormats = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02", "01/02/2006"}

// CSVProvider loads normalized excursion trades from CSV files. Trade
// normalization itself happens upstream; this loader only maps columns and
// skips rows it cannot parse.
type CSVProvider struct{}

// NewCSVProvider creates a new CSV trade provider.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// LoadTrades reads the trade history from filename. Malformed rows are
// logged and skipped, never fatal; a missing required header is an error.
func (p *CSVProvider) LoadTrades(filename string) ([]types.ExcursionTrade, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colPL, colMaxProfitPct, colMaxLossPct} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("trades file missing required column %q", required)
		}
	}

	var trades []types.ExcursionTrade
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV at line %d: %w", lineNum+1, err)
		}
		lineNum++

		trade, err := parseTrade(record, cols)
		if err != nil {
			log.Warn().Int("line", lineNum).Err(err).Msg("skipping malformed trade row")
			continue
		}
		trades = append(trades, trade)
	}

	log.Debug().Int("trades", len(trades)).Str("file", filename).Msg("loaded trade history")
	return trades, nil
}

func parseTrade(record []string, cols map[string]int) (types.ExcursionTrade, error) {
	var t types.ExcursionTrade
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	t.ID = field(colTradeID)
	t.Strategy = field(colStrategy)

	var err error
	if t.PL, err = parseFloat(field(colPL)); err != nil {
		return t, fmt.Errorf("pl: %w", err)
	}
	if t.MaxProfitPct, err = parseFloat(field(colMaxProfitPct)); err != nil {
		return t, fmt.Errorf("max_profit_pct: %w", err)
	}
	if t.MaxLossPct, err = parseFloat(field(colMaxLossPct)); err != nil {
		return t, fmt.Errorf("max_loss_pct: %w", err)
	}
	// Capital bases are optional; a trade with neither is carried but
	// excluded from basis-normalized computations downstream.
	t.MarginReq, _ = parseFloat(field(colMarginReq))
	t.Premium, _ = parseFloat(field(colPremium))

	if opened := field(colOpened); opened != "" {
		for _, layout := range dateFormats {
			if ts, perr := time.Parse(layout, opened); perr == nil {
				t.Opened = ts
				break
			}
		}
	}
	return t, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", ""), "%")
	s = strings.TrimPrefix(s, "$")
	return strconv.ParseFloat(s, 64)
}
