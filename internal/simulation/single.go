package simulation

import (
	"math"

	"github.com/optionslab/exitopt/pkg/types"
)

// FlatTPMetrics aggregates the outcome of a flat, single-level take-profit
// rule applied across a trade set. All percentage fields are percentages of
// the chosen basis; dollar fields are in account currency.
type FlatTPMetrics struct {
	TPPct        float64 `json:"tp_pct"`
	TradeCount   int     `json:"trade_count"`
	TotalPL      float64 `json:"total_pl"`
	AvgReturnPct float64 `json:"avg_return_pct"`
	WinRate      float64 `json:"win_rate"`
	AvgWinPct    float64 `json:"avg_win_pct"`
	AvgLossPct   float64 `json:"avg_loss_pct"`
	ProfitFactor float64 `json:"profit_factor"`
	Expectancy   float64 `json:"expectancy"`
}

// SimulateFlatTP evaluates one take-profit-only candidate: any trade whose
// favorable excursion reached tpPct is assumed to have closed there, every
// other trade keeps its realized return. Trades without a positive
// denominator are excluded.
func SimulateFlatTP(trades []types.ExcursionTrade, basis types.Basis, tpPct float64) FlatTPMetrics {
	returns := make([]float64, 0, len(trades))
	totalPL := 0.0
	for _, t := range trades {
		denom := t.Denominator(basis)
		if denom <= 0 {
			continue
		}
		ret := t.ReturnPct(basis)
		if t.MaxProfitPct >= tpPct {
			ret = tpPct
		}
		returns = append(returns, ret)
		totalPL += ret / 100 * denom
	}
	m := aggregateReturns(returns)
	m.TPPct = tpPct
	m.TotalPL = totalPL
	return m
}

// Baseline aggregates the trades' realized returns with no TP override.
// It is the comparison anchor for every optimization sweep.
func Baseline(trades []types.ExcursionTrade, basis types.Basis) FlatTPMetrics {
	returns := make([]float64, 0, len(trades))
	totalPL := 0.0
	for _, t := range trades {
		denom := t.Denominator(basis)
		if denom <= 0 {
			continue
		}
		ret := t.ReturnPct(basis)
		returns = append(returns, ret)
		totalPL += t.PL
	}
	m := aggregateReturns(returns)
	m.TotalPL = totalPL
	return m
}

// aggregateReturns computes the per-trade statistics over simulated return
// percentages. Every degenerate case resolves to an explicit zero or
// sentinel, never NaN: empty input yields the zero value, a zero gross loss
// yields +Inf only when gross profit exists.
func aggregateReturns(returns []float64) FlatTPMetrics {
	var m FlatTPMetrics
	if len(returns) == 0 {
		return m
	}

	var sum, grossProfit, grossLoss float64
	wins, losses := 0, 0
	for _, r := range returns {
		sum += r
		switch {
		case r > 0:
			wins++
			grossProfit += r
		case r < 0:
			losses++
			grossLoss += -r
		}
	}

	n := float64(len(returns))
	m.TradeCount = len(returns)
	m.AvgReturnPct = sum / n
	m.WinRate = float64(wins) / n * 100

	if wins > 0 {
		m.AvgWinPct = grossProfit / float64(wins)
	}
	if losses > 0 {
		m.AvgLossPct = grossLoss / float64(losses)
	}

	if grossLoss == 0 {
		if grossProfit > 0 {
			m.ProfitFactor = math.Inf(1)
		}
	} else {
		m.ProfitFactor = grossProfit / grossLoss
	}

	winRate := float64(wins) / n
	m.Expectancy = winRate*m.AvgWinPct - (1-winRate)*m.AvgLossPct

	return m
}
