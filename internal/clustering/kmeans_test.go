package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optionslab/exitopt/pkg/types"
)

// TestClusterTrades_EmptyInput verifies an empty history yields an empty
// cluster list, not nil dereferences downstream.
func TestClusterTrades_EmptyInput(t *testing.T) {
	clusters := ClusterTrades(nil, DefaultOptions())

	assert.NotNil(t, clusters)
	assert.Empty(t, clusters)
}

// TestClusterTrades_AtMostMinKN verifies at most min(K, n) non-empty
// clusters come back.
func TestClusterTrades_AtMostMinKN(t *testing.T) {
	trades := []types.ExcursionTrade{
		{Strategy: "a", PL: 50, MarginReq: 1000, MaxProfitPct: 20, MaxLossPct: -5},
		{Strategy: "b", PL: -20, MarginReq: 1000, MaxProfitPct: 8, MaxLossPct: -15},
	}

	clusters := ClusterTrades(trades, Options{Clusters: 5, MaxIterations: 10, Tolerance: 0.1})

	assert.LessOrEqual(t, len(clusters), 2)
	assert.NotEmpty(t, clusters)
	total := 0
	for _, c := range clusters {
		assert.Greater(t, c.TradeCount, 0)
		total += c.TradeCount
	}
	assert.Equal(t, 2, total)
}

// TestClusterTrades_SeparatesBehavior verifies two well-separated excursion
// profiles land in two clusters sorted by member count.
func TestClusterTrades_SeparatesBehavior(t *testing.T) {
	var trades []types.ExcursionTrade
	// Five small-excursion trades, three runaway winners.
	for i := 0; i < 5; i++ {
		trades = append(trades, types.ExcursionTrade{
			Strategy: "condor", PL: 40, MarginReq: 1000,
			MaxProfitPct: 10 + float64(i), MaxLossPct: -6,
		})
	}
	for i := 0; i < 3; i++ {
		trades = append(trades, types.ExcursionTrade{
			Strategy: "strangle", PL: 900, MarginReq: 1000,
			MaxProfitPct: 200 + float64(i*10), MaxLossPct: -60,
		})
	}

	clusters := ClusterTrades(trades, Options{Clusters: 2, MaxIterations: 10, Tolerance: 0.1})

	require.Len(t, clusters, 2)
	assert.Equal(t, 5, clusters[0].TradeCount)
	assert.Equal(t, 3, clusters[1].TradeCount)
	assert.Equal(t, []string{"condor"}, clusters[0].Strategies)
	assert.Equal(t, []string{"strangle"}, clusters[1].Strategies)
	assert.Less(t, clusters[0].AvgMFE, clusters[1].AvgMFE)
}

// TestClusterTrades_DerivedFields verifies the per-cluster aggregates:
// naive optimal TP, win rate, potential improvement.
func TestClusterTrades_DerivedFields(t *testing.T) {
	trades := []types.ExcursionTrade{
		{Strategy: "put", PL: 100, MarginReq: 1000, MaxProfitPct: 40, MaxLossPct: -10},
		{Strategy: "put", PL: -50, MarginReq: 1000, MaxProfitPct: 20, MaxLossPct: -30},
	}

	clusters := ClusterTrades(trades, Options{Clusters: 1, MaxIterations: 10, Tolerance: 0.1})

	require.Len(t, clusters, 1)
	c := clusters[0]
	assert.Equal(t, 2, c.TradeCount)
	assert.InDelta(t, 30, c.AvgMFE, 1e-9)
	assert.InDelta(t, -20, c.AvgMAE, 1e-9)
	assert.InDelta(t, 30, c.OptimalTP, 1e-9) // round(avg MFE)
	assert.InDelta(t, 50, c.WinRate, 1e-9)
	assert.InDelta(t, 100-c.AvgEfficiency, c.PotentialImprovement, 1e-9)
	assert.GreaterOrEqual(t, c.PotentialImprovement, 0.0)
}

// TestClusterTrades_DeterministicGivenOrder verifies two runs over the same
// slice produce identical segments (stratified seeding, no randomness).
func TestClusterTrades_DeterministicGivenOrder(t *testing.T) {
	var trades []types.ExcursionTrade
	for i := 0; i < 12; i++ {
		trades = append(trades, types.ExcursionTrade{
			Strategy: "s", PL: float64(i*10 - 40), MarginReq: 1000,
			MaxProfitPct: float64(5 + i*9), MaxLossPct: float64(-3 - i),
		})
	}
	opts := Options{Clusters: 3, MaxIterations: 10, Tolerance: 0.1}

	first := ClusterTrades(trades, opts)
	second := ClusterTrades(trades, opts)

	assert.Equal(t, first, second)
}
