package simulation

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optionslab/exitopt/pkg/types"
)

func tradesWithMFE(mfes ...float64) []types.ExcursionTrade {
	trades := make([]types.ExcursionTrade, len(mfes))
	for i, m := range mfes {
		trades[i] = types.ExcursionTrade{MarginReq: 1000, MaxProfitPct: m}
	}
	return trades
}

// TestAutoTPCandidates_SortedAndBounded verifies the candidate invariants:
// strictly ascending, no duplicates, everything inside [1, maxMFE*1.05].
func TestAutoTPCandidates_SortedAndBounded(t *testing.T) {
	trades := tradesWithMFE(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	candidates := AutoTPCandidates(trades)

	assert.NotEmpty(t, candidates)
	assert.True(t, sort.Float64sAreSorted(candidates))
	for i := 1; i < len(candidates); i++ {
		assert.Greater(t, candidates[i], candidates[i-1], "duplicate or unsorted candidate")
	}
	for _, c := range candidates {
		assert.GreaterOrEqual(t, c, 1.0)
		assert.LessOrEqual(t, c, 105.0) // 100 * 1.05
	}
}

// TestAutoTPCandidates_UnionOfDecilesAndAnchors verifies observed deciles
// and fixed anchors both survive the filter.
func TestAutoTPCandidates_UnionOfDecilesAndAnchors(t *testing.T) {
	trades := tradesWithMFE(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)

	candidates := AutoTPCandidates(trades)

	assert.Contains(t, candidates, 60.0) // decile, not an anchor
	assert.Contains(t, candidates, 75.0) // anchor, not a decile
	assert.Contains(t, candidates, 5.0)
	assert.NotContains(t, candidates, 150.0) // above 105
}

// TestAutoTPCandidates_FallbackLadder verifies the default ladder when no
// trade has a positive favorable excursion.
func TestAutoTPCandidates_FallbackLadder(t *testing.T) {
	trades := tradesWithMFE(0, -5, 0)

	candidates := AutoTPCandidates(trades)

	assert.Equal(t, []float64{5, 10, 15, 20, 25, 30, 40, 50}, candidates)
}

// TestAutoTPCandidates_EmptyInput falls back to the default ladder as well.
func TestAutoTPCandidates_EmptyInput(t *testing.T) {
	candidates := AutoTPCandidates(nil)

	assert.Equal(t, []float64{5, 10, 15, 20, 25, 30, 40, 50}, candidates)
}

// TestAutoTPCandidates_SubOneDecilesDropped verifies decile values below 1
// are excluded while anchors inside the bound remain.
func TestAutoTPCandidates_SubOneDecilesDropped(t *testing.T) {
	trades := tradesWithMFE(0.2, 0.3, 0.4, 0.5, 30)

	candidates := AutoTPCandidates(trades)

	for _, c := range candidates {
		assert.GreaterOrEqual(t, c, 1.0)
	}
	assert.Contains(t, candidates, 30.0)
	assert.Contains(t, candidates, 5.0)
}
