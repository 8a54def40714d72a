package simulation

import (
	"fmt"
	"strings"

	"github.com/optionslab/exitopt/pkg/types"
)

// TPLevel is one take-profit tier of a staged exit rule. CloseFraction is
// the share of the original position closed when the tier fires; TrailTo,
// when set, activates a new trailing-stop floor once the tier fires.
type TPLevel struct {
	LevelPct      float64  `json:"level_pct"`
	CloseFraction float64  `json:"close_fraction"`
	TrailTo       *float64 `json:"trail_to_pct,omitempty"`
}

// ExitRule is a staged take-profit + trailing-stop + stop-loss exit
// configuration. TakeProfits must be ordered by ascending LevelPct; a rule
// with no tiers degenerates to a pure stop-loss rule.
type ExitRule struct {
	Basis       types.Basis `json:"basis"`
	StopLossPct float64     `json:"stop_loss_pct"`
	TakeProfits []TPLevel   `json:"take_profits"`
}

// Valid reports whether the tier structure is admissible: strictly ascending
// levels and a close-fraction sum of at most 1. Invalid rules are skipped by
// the optimizer, never evaluated.
func (r ExitRule) Valid() bool {
	fracSum := 0.0
	prevLevel := 0.0
	for i, tp := range r.TakeProfits {
		if tp.LevelPct <= 0 || tp.CloseFraction <= 0 || tp.CloseFraction > 1 {
			return false
		}
		if i > 0 && tp.LevelPct <= prevLevel {
			return false
		}
		prevLevel = tp.LevelPct
		fracSum += tp.CloseFraction
	}
	return fracSum <= 1+1e-9
}

// Label renders a compact human-readable description of the rule, used in
// result tables and export rows.
func (r ExitRule) Label() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SL %.0f%%", r.StopLossPct)
	for i, tp := range r.TakeProfits {
		fmt.Fprintf(&b, " | TP%d %.0f%% x%.2f", i+1, tp.LevelPct, tp.CloseFraction)
		if tp.TrailTo != nil {
			fmt.Fprintf(&b, " trail %.0f%%", *tp.TrailTo)
		}
	}
	return b.String()
}

// SimulateTrade evaluates one trade under the rule and returns the simulated
// return percentage and dollar P/L. A trade with no positive denominator
// contributes zero and is reported as excluded.
func SimulateTrade(t types.ExcursionTrade, rule ExitRule) (retPct, pl float64, included bool) {
	denom := t.Denominator(rule.Basis)
	if denom <= 0 {
		return 0, 0, false
	}
	realReturnPct := t.PL / denom * 100

	if len(rule.TakeProfits) == 0 {
		simulated := realReturnPct
		if t.MaxLossPct <= rule.StopLossPct && realReturnPct < rule.StopLossPct {
			simulated = rule.StopLossPct
		}
		return simulated, simulated / 100 * denom, true
	}

	hit := make([]TPLevel, 0, len(rule.TakeProfits))
	for _, tp := range rule.TakeProfits {
		if t.MaxProfitPct >= tp.LevelPct {
			hit = append(hit, tp)
		}
	}

	// The adverse excursion reached the stop before any target fired: the
	// whole position is assumed stopped out at the stop level.
	if len(hit) == 0 && t.MaxLossPct <= rule.StopLossPct {
		return rule.StopLossPct, rule.StopLossPct / 100 * denom, true
	}

	remaining := 1.0
	currentStop := rule.StopLossPct
	simulated := 0.0
	for _, tp := range hit {
		closeSize := tp.CloseFraction
		if closeSize > remaining {
			closeSize = remaining
		}
		simulated += closeSize * tp.LevelPct
		remaining -= closeSize
		// Trailing stops only ever ratchet up.
		if tp.TrailTo != nil && *tp.TrailTo > currentStop {
			currentStop = *tp.TrailTo
		}
	}
	if remaining > 0 {
		residual := realReturnPct
		if residual < currentStop {
			residual = currentStop
		}
		simulated += remaining * residual
	}
	return simulated, simulated / 100 * denom, true
}
