package types

import "time"

// Basis selects the denominator used to normalize dollar P/L into a
// percentage return.
type Basis string

const (
	BasisMargin  Basis = "margin"
	BasisPremium Basis = "premium"
)

// ExcursionTrade is one normalized historical trade annotated with its
// maximum favorable and adverse excursions. MaxProfitPct (MFE) is positive,
// MaxLossPct (MAE) is negative; both are percentages of the capital basis.
type ExcursionTrade struct {
	ID           string    `json:"id"`
	Strategy     string    `json:"strategy"`
	Opened       time.Time `json:"opened"`
	PL           float64   `json:"pl"`
	MarginReq    float64   `json:"margin_req"`
	Premium      float64   `json:"premium"`
	MaxProfitPct float64   `json:"max_profit_pct"`
	MaxLossPct   float64   `json:"max_loss_pct"`
}

// Denominator resolves the capital basis for this trade. A non-positive
// result means the trade is excluded from basis-normalized computations.
func (t ExcursionTrade) Denominator(basis Basis) float64 {
	if basis == BasisPremium {
		return t.Premium
	}
	return t.MarginReq
}

// ReturnPct is the realized return as a percentage of the given basis,
// or 0 when the denominator is not positive.
func (t ExcursionTrade) ReturnPct(basis Basis) float64 {
	denom := t.Denominator(basis)
	if denom <= 0 {
		return 0
	}
	return t.PL / denom * 100
}

// PreferredReturnPct normalizes against margin when available, falling back
// to premium. Used by basis-agnostic consumers such as the clusterer.
func (t ExcursionTrade) PreferredReturnPct() float64 {
	if t.MarginReq > 0 {
		return t.ReturnPct(BasisMargin)
	}
	return t.ReturnPct(BasisPremium)
}

// Efficiency is the share of the favorable excursion the trade actually
// captured, clamped to [0, 100]. Trades with no favorable excursion score 0.
func (t ExcursionTrade) Efficiency() float64 {
	if t.MaxProfitPct <= 0 {
		return 0
	}
	eff := t.PreferredReturnPct() / t.MaxProfitPct * 100
	if eff < 0 {
		return 0
	}
	if eff > 100 {
		return 100
	}
	return eff
}
