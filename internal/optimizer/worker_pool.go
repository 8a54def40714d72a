package optimizer

import (
	"context"
	"runtime"
	"sync"

	"github.com/optionslab/exitopt/internal/simulation"
	"github.com/optionslab/exitopt/pkg/types"
)

// WorkerPool fans scenario evaluation out over a fixed set of goroutines.
// Every job is independent: a rule's result depends only on that rule and
// the shared read-only trade set, so evaluation order is irrelevant.
type WorkerPool struct {
	workerCount int
	jobQueue    chan simulation.ExitRule
	resultQueue chan ScenarioResult
	wg          sync.WaitGroup
	ctx         context.Context
}

// NewWorkerPool creates a pool evaluating rules against the given trade set.
func NewWorkerPool(ctx context.Context, workerCount, bufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if bufferSize <= 0 {
		bufferSize = workerCount * 4
	}
	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan simulation.ExitRule, bufferSize),
		resultQueue: make(chan ScenarioResult, bufferSize),
		ctx:         ctx,
	}
}

// Start launches the workers. Results closes once every worker has drained.
func (wp *WorkerPool) Start(trades []types.ExcursionTrade, startingCapital float64) {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(trades, startingCapital)
	}
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()
}

// Submit queues one rule for evaluation. Returns false when the pool's
// context was cancelled.
func (wp *WorkerPool) Submit(rule simulation.ExitRule) bool {
	select {
	case wp.jobQueue <- rule:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Close signals that no further jobs will be submitted.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}

// Results returns the channel of completed evaluations.
func (wp *WorkerPool) Results() <-chan ScenarioResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(trades []types.ExcursionTrade, startingCapital float64) {
	defer wp.wg.Done()
	for {
		select {
		case rule, ok := <-wp.jobQueue:
			if !ok {
				return
			}
			result := Evaluate(trades, rule, startingCapital)
			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}
		case <-wp.ctx.Done():
			return
		}
	}
}
