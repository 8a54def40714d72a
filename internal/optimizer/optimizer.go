package optimizer

import (
	"context"
	"sort"
	"time"

	"github.com/optionslab/exitopt/internal/monitoring"
	"github.com/optionslab/exitopt/pkg/config"
	"github.com/optionslab/exitopt/pkg/types"
)

// Optimizer runs the exhaustive grid search over the configured rule space.
type Optimizer struct {
	cfg *config.Config
}

// New creates an optimizer for the given configuration. The configuration
// is expected to be validated already.
func New(cfg *config.Config) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Summary describes one completed sweep.
type Summary struct {
	Evaluated int64
	Skipped   int64
	Rejected  int64
	Retained  int
	Elapsed   time.Duration
}

// Run enumerates every admissible rule, evaluates each against the full
// trade set in parallel, filters by the configured risk constraints, and
// returns the survivors ranked by total P/L (ties broken by capture rate).
// Cancellation is coarse-grained: a cancelled context aborts the whole
// sweep, since partial results are not a valid "best" answer.
func (o *Optimizer) Run(ctx context.Context, trades []types.ExcursionTrade) ([]ScenarioResult, Summary, error) {
	start := time.Now()
	g := o.cfg.Grid

	pool := NewWorkerPool(ctx, o.cfg.Workers, 0)
	pool.Start(trades, g.StartingCapital)

	var generated, skipped int64
	go func() {
		generated, skipped = EnumerateRules(g, pool.Submit)
		pool.Close()
	}()

	var results []ScenarioResult
	var rejected int64
	for result := range pool.Results() {
		if !o.accept(result) {
			rejected++
			continue
		}
		results = append(results, result)
	}
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalPL != results[j].TotalPL {
			return results[i].TotalPL > results[j].TotalPL
		}
		return results[i].CaptureRate > results[j].CaptureRate
	})

	summary := Summary{
		Evaluated: generated,
		Skipped:   skipped,
		Rejected:  rejected,
		Retained:  len(results),
		Elapsed:   time.Since(start),
	}
	o.publish(results, summary)
	return results, summary, nil
}

func (o *Optimizer) accept(r ScenarioResult) bool {
	g := o.cfg.Grid
	if g.MaxDrawdownPct != nil && r.MaxDrawdownPct < -*g.MaxDrawdownPct {
		return false
	}
	if g.MinWinRatePct != nil && r.WinRate < *g.MinWinRatePct {
		return false
	}
	return true
}

func (o *Optimizer) publish(results []ScenarioResult, s Summary) {
	monitoring.RecordCombinations(monitoring.StatusEvaluated, s.Evaluated)
	monitoring.RecordCombinations(monitoring.StatusSkipped, s.Skipped)
	monitoring.RecordCombinations(monitoring.StatusRejected, s.Rejected)
	monitoring.ObserveSweep(s.Elapsed)
	best := 0.0
	if len(results) > 0 {
		best = results[0].TotalPL
	}
	monitoring.RecordResults(len(results), best)
}
