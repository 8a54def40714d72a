package clustering

import (
	"math"
	"sort"

	"github.com/optionslab/exitopt/pkg/types"
)

// efficiencyWeight down-weights the efficiency dimension in the distance
// metric; it lives on a different natural scale than MFE/MAE.
const efficiencyWeight = 0.1

// Options tunes the behavioral clusterer. The iteration cap and convergence
// tolerance are configuration because the algorithm is a heuristic: it is
// not a provably converging k-means variant, and results are deterministic
// only for identical input order (ties are broken by array position).
type Options struct {
	Clusters      int
	MaxIterations int
	Tolerance     float64
}

// DefaultOptions returns the standard clustering parameters.
func DefaultOptions() Options {
	return Options{Clusters: 4, MaxIterations: 10, Tolerance: 0.1}
}

// Cluster is one behavioral segment of the trade history. Clusters are
// value objects built fresh on every run; they carry no reference back to
// the trade set.
type Cluster struct {
	ID                   int      `json:"id"`
	TradeCount           int      `json:"trade_count"`
	AvgMFE               float64  `json:"avg_mfe_pct"`
	AvgMAE               float64  `json:"avg_mae_pct"`
	AvgEfficiency        float64  `json:"avg_efficiency_pct"`
	Strategies           []string `json:"strategies"`
	WinRate              float64  `json:"win_rate"`
	OptimalTP            float64  `json:"optimal_tp_pct"`
	PotentialImprovement float64  `json:"potential_improvement_pct"`
}

type point struct {
	mfe, mae, eff float64
}

func (p point) distSq(q point) float64 {
	dm := p.mfe - q.mfe
	da := p.mae - q.mae
	de := p.eff - q.eff
	return dm*dm + da*da + efficiencyWeight*de*de
}

// ClusterTrades groups trades into at most opts.Clusters behavioral segments
// over (MFE%, MAE%, efficiency%). Seeding is stratified: trades are sorted
// by MFE and evenly spaced members become the initial centroids, which makes
// the run deterministic given input order. Returns clusters sorted by trade
// count descending; empty input yields an empty slice.
func ClusterTrades(trades []types.ExcursionTrade, opts Options) []Cluster {
	n := len(trades)
	if n == 0 {
		return []Cluster{}
	}
	if opts.Clusters <= 0 {
		opts.Clusters = DefaultOptions().Clusters
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultOptions().MaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}

	points := make([]point, n)
	for i, t := range trades {
		points[i] = point{mfe: t.MaxProfitPct, mae: t.MaxLossPct, eff: t.Efficiency()}
	}

	k := opts.Clusters
	if k > n {
		k = n
	}
	centroids := seedCentroids(points, k)

	assignment := make([]int, n)
	for iter := 0; iter < opts.MaxIterations; iter++ {
		for i, p := range points {
			best := 0
			bestDist := p.distSq(centroids[0])
			for c := 1; c < k; c++ {
				if d := p.distSq(centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			assignment[i] = best
		}

		moved := false
		for c := 0; c < k; c++ {
			var sum point
			count := 0
			for i, a := range assignment {
				if a != c {
					continue
				}
				sum.mfe += points[i].mfe
				sum.mae += points[i].mae
				sum.eff += points[i].eff
				count++
			}
			if count == 0 {
				continue
			}
			next := point{
				mfe: sum.mfe / float64(count),
				mae: sum.mae / float64(count),
				eff: sum.eff / float64(count),
			}
			if math.Abs(next.mfe-centroids[c].mfe) >= opts.Tolerance ||
				math.Abs(next.mae-centroids[c].mae) >= opts.Tolerance ||
				math.Abs(next.eff-centroids[c].eff) >= opts.Tolerance {
				moved = true
			}
			centroids[c] = next
		}
		if !moved {
			break
		}
	}

	clusters := buildClusters(trades, points, assignment, k)
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].TradeCount > clusters[j].TradeCount
	})
	return clusters
}

// seedCentroids picks k evenly spaced members of the MFE-sorted order.
func seedCentroids(points []point, k int) []point {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].mfe < points[order[b]].mfe
	})

	centroids := make([]point, k)
	if k == 1 {
		centroids[0] = points[order[len(order)/2]]
		return centroids
	}
	for i := 0; i < k; i++ {
		idx := i * (len(order) - 1) / (k - 1)
		centroids[i] = points[order[idx]]
	}
	return centroids
}

func buildClusters(trades []types.ExcursionTrade, points []point, assignment []int, k int) []Cluster {
	clusters := make([]Cluster, 0, k)
	for c := 0; c < k; c++ {
		var sumMFE, sumMAE, sumEff float64
		wins := 0
		count := 0
		strategies := map[string]bool{}
		for i, a := range assignment {
			if a != c {
				continue
			}
			count++
			sumMFE += points[i].mfe
			sumMAE += points[i].mae
			sumEff += points[i].eff
			if trades[i].PL > 0 {
				wins++
			}
			if trades[i].Strategy != "" {
				strategies[trades[i].Strategy] = true
			}
		}
		if count == 0 {
			continue
		}

		labels := make([]string, 0, len(strategies))
		for s := range strategies {
			labels = append(labels, s)
		}
		sort.Strings(labels)

		avgMFE := sumMFE / float64(count)
		avgEff := sumEff / float64(count)
		improvement := 100 - avgEff
		if improvement < 0 {
			improvement = 0
		}
		clusters = append(clusters, Cluster{
			ID:                   c,
			TradeCount:           count,
			AvgMFE:               avgMFE,
			AvgMAE:               sumMAE / float64(count),
			AvgEfficiency:        avgEff,
			Strategies:           labels,
			WinRate:              float64(wins) / float64(count) * 100,
			OptimalTP:            math.Round(avgMFE),
			PotentialImprovement: improvement,
		})
	}
	return clusters
}
