package simulation

import (
	"math"
	"sort"

	"github.com/optionslab/exitopt/pkg/types"
)

// anchorLevels is a fixed log-scale ladder of take-profit percentages that
// seeds every candidate set regardless of the observed MFE distribution.
var anchorLevels = []float64{
	5, 10, 15, 20, 25, 30, 40, 50, 75, 100,
	150, 200, 250, 300, 400, 500, 750, 1000, 1500, 2000,
}

// defaultLadder is used when no trade has a positive favorable excursion.
var defaultLadder = []float64{5, 10, 15, 20, 25, 30, 40, 50}

// AutoTPCandidates derives a sorted, deduplicated list of take-profit
// percentages for the single-level sweep: the deciles of the observed
// positive MFE values unioned with the fixed anchors, bounded to
// [1, maxMFE*1.05] and rounded to 0.1.
func AutoTPCandidates(trades []types.ExcursionTrade) []float64 {
	mfes := make([]float64, 0, len(trades))
	for _, t := range trades {
		if t.MaxProfitPct > 0 {
			mfes = append(mfes, t.MaxProfitPct)
		}
	}
	if len(mfes) == 0 {
		out := make([]float64, len(defaultLadder))
		copy(out, defaultLadder)
		return out
	}
	sort.Float64s(mfes)
	maxMFE := mfes[len(mfes)-1]
	upper := maxMFE * 1.05

	seen := make(map[float64]bool)
	var candidates []float64
	add := func(v float64) {
		v = roundTo(v, 0.1)
		if v < 1 || v > upper || seen[v] {
			return
		}
		seen[v] = true
		candidates = append(candidates, v)
	}

	for p := 10; p <= 90; p += 10 {
		idx := int(math.Round(float64(len(mfes)-1) * float64(p) / 100))
		add(mfes[idx])
	}
	for _, v := range anchorLevels {
		add(v)
	}

	sort.Float64s(candidates)
	return candidates
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
