package clustering

import (
	"math"

	"github.com/optionslab/exitopt/pkg/types"
)

// insightLadder is the fixed take-profit sweep used to locate each cluster's
// diminishing-returns threshold.
var insightLadder = []float64{50, 75, 100, 125, 150, 175, 200, 250, 300, 400, 500}

// Recommendation tiers for the expected efficiency gain.
const (
	RecommendationCritical = "Critical - adjust take-profit now"
	RecommendationOptimize = "Optimize"
	RecommendationMonitor  = "Near-optimal - monitor beyond the diminishing-return threshold"
)

// Insight is one cluster's exit recommendation: where the cluster currently
// takes profit, where the sweep says it should, and what that is worth.
type Insight struct {
	ClusterID        int     `json:"cluster_id"`
	CurrentTP        float64 `json:"current_tp_pct"`
	OptimalTP        float64 `json:"optimal_tp_pct"`
	ExpectedDeltaPL  float64 `json:"expected_delta_pl"`
	ExpectedDeltaPct float64 `json:"expected_delta_pct"`
	EfficiencyDelta  float64 `json:"efficiency_delta_pct"`
	DiminishingTP    float64 `json:"diminishing_tp_pct"`
	Recommendation   string  `json:"recommendation"`
	AffectedTrades   int     `json:"affected_trades"`
}

// TPRow is one row of the flattened optimal-TP table: one strategy within
// one cluster, in the fixed export column order.
type TPRow struct {
	Strategy            string  `json:"strategy"`
	TradeCount          int     `json:"trade_count"`
	CurrentTP           float64 `json:"current_tp_pct"`
	OptimalTP           float64 `json:"optimal_tp_pct"`
	ExpectedImprovement float64 `json:"expected_improvement_pct"`
	WinRate             float64 `json:"win_rate_pct"`
	Efficiency          float64 `json:"efficiency_pct"`
}

// GenerateInsights sweeps the fixed TP ladder over each cluster's trades,
// producing one insight per cluster and the flattened per-strategy table.
// The returned combination count is the number of ladder evaluations
// performed, reported in the JSON export envelope.
func GenerateInsights(trades []types.ExcursionTrade, clusters []Cluster) ([]Insight, []TPRow, int) {
	insights := make([]Insight, 0, len(clusters))
	rows := make([]TPRow, 0, len(clusters))
	combinations := 0

	for _, cluster := range clusters {
		members := filterByStrategies(trades, cluster.Strategies)
		if len(members) == 0 {
			continue
		}
		combinations += len(insightLadder)

		curve := make([]float64, len(insightLadder))
		for i, tp := range insightLadder {
			curve[i] = capturedEfficiency(members, tp)
		}

		bestIdx := 0
		for i := 1; i < len(curve); i++ {
			if curve[i] > curve[bestIdx] {
				bestIdx = i
			}
		}
		bestTP := insightLadder[bestIdx]

		// First rung where the round-to-round gain drops below one
		// percentage point.
		diminishing := 100.0
		for i := 1; i < len(curve); i++ {
			if curve[i]-curve[i-1] < 1 {
				diminishing = insightLadder[i]
				break
			}
		}

		baselinePL := 0.0
		for _, t := range members {
			baselinePL += t.PL
		}
		simulatedPL := simulatedTotalPL(members, bestTP)
		deltaPL := simulatedPL - baselinePL
		deltaPct := 0.0
		if baselinePL != 0 {
			deltaPct = deltaPL / math.Abs(baselinePL) * 100
		}

		effDelta := curve[bestIdx] - cluster.AvgEfficiency

		insight := Insight{
			ClusterID:        cluster.ID,
			CurrentTP:        currentTP(members),
			OptimalTP:        bestTP,
			ExpectedDeltaPL:  deltaPL,
			ExpectedDeltaPct: deltaPct,
			EfficiencyDelta:  effDelta,
			DiminishingTP:    diminishing,
			Recommendation:   classify(effDelta),
			AffectedTrades:   len(members),
		}
		insights = append(insights, insight)

		for _, strategy := range cluster.Strategies {
			stratTrades := filterByStrategies(members, []string{strategy})
			if len(stratTrades) == 0 {
				continue
			}
			rows = append(rows, TPRow{
				Strategy:            strategy,
				TradeCount:          len(stratTrades),
				CurrentTP:           insight.CurrentTP,
				OptimalTP:           insight.OptimalTP,
				ExpectedImprovement: insight.EfficiencyDelta,
				WinRate:             winRate(stratTrades),
				Efficiency:          avgEfficiency(stratTrades),
			})
		}
	}
	return insights, rows, combinations
}

func classify(effDelta float64) string {
	switch {
	case effDelta > 5:
		return RecommendationCritical
	case effDelta >= 2:
		return RecommendationOptimize
	default:
		return RecommendationMonitor
	}
}

// capturedEfficiency is the mean share of favorable excursion captured when
// every trade that reached tp is assumed to have closed there.
func capturedEfficiency(trades []types.ExcursionTrade, tp float64) float64 {
	sum := 0.0
	count := 0
	for _, t := range trades {
		if t.MaxProfitPct <= 0 {
			continue
		}
		captured := t.PreferredReturnPct()
		if t.MaxProfitPct >= tp {
			captured = tp
		}
		eff := captured / t.MaxProfitPct * 100
		if eff < 0 {
			eff = 0
		}
		if eff > 100 {
			eff = 100
		}
		sum += eff
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func simulatedTotalPL(trades []types.ExcursionTrade, tp float64) float64 {
	total := 0.0
	for _, t := range trades {
		denom := t.MarginReq
		if denom <= 0 {
			denom = t.Premium
		}
		if denom <= 0 {
			continue
		}
		if t.MaxProfitPct >= tp {
			total += tp / 100 * denom
		} else {
			total += t.PL
		}
	}
	return total
}

// currentTP estimates where the segment's winners are being closed today:
// the rounded mean realized return of profitable trades.
func currentTP(trades []types.ExcursionTrade) float64 {
	sum := 0.0
	count := 0
	for _, t := range trades {
		ret := t.PreferredReturnPct()
		if ret > 0 {
			sum += ret
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Round(sum / float64(count))
}

func filterByStrategies(trades []types.ExcursionTrade, strategies []string) []types.ExcursionTrade {
	allowed := make(map[string]bool, len(strategies))
	for _, s := range strategies {
		allowed[s] = true
	}
	out := make([]types.ExcursionTrade, 0, len(trades))
	for _, t := range trades {
		if allowed[t.Strategy] {
			out = append(out, t)
		}
	}
	return out
}

func winRate(trades []types.ExcursionTrade) float64 {
	if len(trades) == 0 {
		return 0
	}
	wins := 0
	for _, t := range trades {
		if t.PL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(trades)) * 100
}

func avgEfficiency(trades []types.ExcursionTrade) float64 {
	if len(trades) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range trades {
		sum += t.Efficiency()
	}
	return sum / float64(len(trades))
}
