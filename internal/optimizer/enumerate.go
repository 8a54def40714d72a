package optimizer

import (
	"github.com/optionslab/exitopt/internal/simulation"
	"github.com/optionslab/exitopt/pkg/config"
	"github.com/optionslab/exitopt/pkg/types"
)

// EnumerateRules walks the Cartesian product of the configured candidate
// lists and hands every admissible rule to yield, lazily; no rule slice is
// ever materialized. Combinations violating the tier invariants (strictly
// ascending levels, close-fraction sum <= 1) are counted as skipped and not
// yielded. yield returning false stops the enumeration.
func EnumerateRules(g config.GridConfig, yield func(simulation.ExitRule) bool) (generated, skipped int64) {
	basis := types.Basis(g.Basis)
	tp1Trails := trailOptions(g.TP1TrailStops)
	tp2Trails := trailOptions(g.TP2TrailStops)
	tp3Trails := trailOptions(g.TP3TrailStops)

	emit := func(rule simulation.ExitRule) bool {
		if !rule.Valid() {
			skipped++
			return true
		}
		generated++
		return yield(rule)
	}

	for _, sl := range g.StopLossLevels {
		for _, tp1 := range g.TP1Levels {
			for _, f1 := range g.TP1Fractions {
				for _, tr1 := range tp1Trails {
					tier1 := simulation.TPLevel{LevelPct: tp1, CloseFraction: f1, TrailTo: tr1}
					if !emit(simulation.ExitRule{
						Basis:       basis,
						StopLossPct: sl,
						TakeProfits: []simulation.TPLevel{tier1},
					}) {
						return generated, skipped
					}
					if len(g.TP2Levels) == 0 {
						continue
					}
					for _, tp2 := range g.TP2Levels {
						if tp2 <= tp1 {
							skipped++
							continue
						}
						for _, f2 := range g.TP2Fractions {
							if f1+f2 > 1 {
								skipped++
								continue
							}
							for _, tr2 := range tp2Trails {
								tier2 := simulation.TPLevel{LevelPct: tp2, CloseFraction: f2, TrailTo: tr2}
								if !emit(simulation.ExitRule{
									Basis:       basis,
									StopLossPct: sl,
									TakeProfits: []simulation.TPLevel{tier1, tier2},
								}) {
									return generated, skipped
								}
								if len(g.TP3Levels) == 0 {
									continue
								}
								for _, tp3 := range g.TP3Levels {
									if tp3 <= tp2 {
										skipped++
										continue
									}
									for _, f3 := range g.TP3Fractions {
										if f1+f2+f3 > 1 {
											skipped++
											continue
										}
										for _, tr3 := range tp3Trails {
											tier3 := simulation.TPLevel{LevelPct: tp3, CloseFraction: f3, TrailTo: tr3}
											if !emit(simulation.ExitRule{
												Basis:       basis,
												StopLossPct: sl,
												TakeProfits: []simulation.TPLevel{tier1, tier2, tier3},
											}) {
												return generated, skipped
											}
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return generated, skipped
}

// trailOptions expands a trailing-stop candidate list into per-tier options.
// An absent list means the tier never trails.
func trailOptions(list []float64) []*float64 {
	if len(list) == 0 {
		return []*float64{nil}
	}
	out := make([]*float64, len(list))
	for i := range list {
		v := list[i]
		out[i] = &v
	}
	return out
}
