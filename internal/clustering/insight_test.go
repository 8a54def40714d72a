package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionslab/exitopt/pkg/types"
)

// TestGenerateInsights_CriticalRecommendation verifies a segment that
// systematically gives back large favorable excursions is flagged critical
// with the sweep's best ladder level as the optimal TP.
func TestGenerateInsights_CriticalRecommendation(t *testing.T) {
	var trades []types.ExcursionTrade
	// Winners that ran to +100% but closed for scraps.
	for i := 0; i < 4; i++ {
		trades = append(trades, types.ExcursionTrade{
			Strategy: "strangle", PL: 20, MarginReq: 1000,
			MaxProfitPct: 100, MaxLossPct: -10,
		})
	}
	clusters := ClusterTrades(trades, Options{Clusters: 1, MaxIterations: 10, Tolerance: 0.1})
	require.Len(t, clusters, 1)

	insights, rows, combinations := GenerateInsights(trades, clusters)

	require.Len(t, insights, 1)
	in := insights[0]
	assert.Equal(t, RecommendationCritical, in.Recommendation)
	assert.InDelta(t, 100, in.OptimalTP, 1e-9) // full MFE capture wins the sweep
	assert.InDelta(t, 125, in.DiminishingTP, 1e-9)
	assert.Equal(t, 4, in.AffectedTrades)
	assert.Greater(t, in.ExpectedDeltaPL, 0.0)
	assert.Equal(t, len(insightLadder), combinations)

	require.Len(t, rows, 1)
	assert.Equal(t, "strangle", rows[0].Strategy)
	assert.Equal(t, 4, rows[0].TradeCount)
	assert.InDelta(t, 100, rows[0].OptimalTP, 1e-9)
}

// TestGenerateInsights_NearOptimalSegment verifies a fully efficient
// segment is left alone.
func TestGenerateInsights_NearOptimalSegment(t *testing.T) {
	trades := []types.ExcursionTrade{
		{Strategy: "put", PL: 600, MarginReq: 1000, MaxProfitPct: 60, MaxLossPct: -5},
		{Strategy: "put", PL: 550, MarginReq: 1000, MaxProfitPct: 55, MaxLossPct: -5},
	}
	clusters := ClusterTrades(trades, Options{Clusters: 1, MaxIterations: 10, Tolerance: 0.1})
	require.Len(t, clusters, 1)

	insights, _, _ := GenerateInsights(trades, clusters)

	require.Len(t, insights, 1)
	assert.Equal(t, RecommendationMonitor, insights[0].Recommendation)
	assert.LessOrEqual(t, insights[0].EfficiencyDelta, 2.0)
}

// TestGenerateInsights_EmptyClusters verifies no insight rows for an empty
// cluster list.
func TestGenerateInsights_EmptyClusters(t *testing.T) {
	insights, rows, combinations := GenerateInsights(nil, nil)

	assert.Empty(t, insights)
	assert.Empty(t, rows)
	assert.Equal(t, 0, combinations)
}

// TestGenerateInsights_RowPerStrategy verifies the flattened table holds
// one row per strategy per cluster.
func TestGenerateInsights_RowPerStrategy(t *testing.T) {
	trades := []types.ExcursionTrade{
		{Strategy: "condor", PL: 30, MarginReq: 1000, MaxProfitPct: 25, MaxLossPct: -8},
		{Strategy: "condor", PL: -40, MarginReq: 1000, MaxProfitPct: 12, MaxLossPct: -20},
		{Strategy: "strangle", PL: 80, MarginReq: 1000, MaxProfitPct: 30, MaxLossPct: -6},
	}
	clusters := ClusterTrades(trades, Options{Clusters: 1, MaxIterations: 10, Tolerance: 0.1})
	require.Len(t, clusters, 1)

	_, rows, _ := GenerateInsights(trades, clusters)

	require.Len(t, rows, 2)
	assert.Equal(t, "condor", rows[0].Strategy)
	assert.Equal(t, 2, rows[0].TradeCount)
	assert.Equal(t, "strangle", rows[1].Strategy)
	assert.Equal(t, 1, rows[1].TradeCount)
	assert.InDelta(t, 100, rows[1].WinRate, 1e-9)
}

// TestClassify_Boundaries pins the recommendation thresholds.
func TestClassify_Boundaries(t *testing.T) {
	assert.Equal(t, RecommendationCritical, classify(5.1))
	assert.Equal(t, RecommendationOptimize, classify(5.0))
	assert.Equal(t, RecommendationOptimize, classify(2.0))
	assert.Equal(t, RecommendationMonitor, classify(1.9))
	assert.Equal(t, RecommendationMonitor, classify(-3.0))
}
