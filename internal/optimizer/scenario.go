package optimizer

import (
	"github.com/optionslab/exitopt/internal/simulation"
	"github.com/optionslab/exitopt/pkg/types"
)

// ScenarioResult is one exit rule evaluated against the full trade set. The
// equity curve holds the starting capital followed by one post-trade value
// per evaluated trade; it is append-only and never mutated after
// construction.
type ScenarioResult struct {
	Rule           simulation.ExitRule `json:"rule"`
	TotalPL        float64             `json:"total_pl"`
	TotalPremium   float64             `json:"total_premium"`
	CaptureRate    float64             `json:"capture_rate"`
	TotalReturnPct float64             `json:"total_return_pct"`
	WinRate        float64             `json:"win_rate"`
	TradeCount     int                 `json:"trade_count"`
	MaxDrawdownPct float64             `json:"max_drawdown_pct"`
	EquityCurve    []float64           `json:"equity_curve"`
}

// Evaluate folds one rule over the trade set: running equity from
// startingCapital, simulated P/L per trade, running-peak drawdown. Trades
// without a usable denominator are excluded from every aggregate.
func Evaluate(trades []types.ExcursionTrade, rule simulation.ExitRule, startingCapital float64) ScenarioResult {
	result := ScenarioResult{
		Rule:        rule,
		EquityCurve: make([]float64, 0, len(trades)+1),
	}

	equity := startingCapital
	peak := startingCapital
	result.EquityCurve = append(result.EquityCurve, equity)

	wins := 0
	for _, t := range trades {
		_, pl, included := simulation.SimulateTrade(t, rule)
		if !included {
			continue
		}
		result.TradeCount++
		result.TotalPL += pl
		result.TotalPremium += t.Premium
		if pl > 0 {
			wins++
		}

		equity += pl
		result.EquityCurve = append(result.EquityCurve, equity)
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			dd := (equity - peak) / peak * 100
			if dd < result.MaxDrawdownPct {
				result.MaxDrawdownPct = dd
			}
		}
	}

	if result.TradeCount > 0 {
		result.WinRate = float64(wins) / float64(result.TradeCount) * 100
	}
	if result.TotalPremium > 0 {
		result.CaptureRate = result.TotalPL / result.TotalPremium
	}
	if startingCapital > 0 {
		result.TotalReturnPct = result.TotalPL / startingCapital * 100
	}
	return result
}
