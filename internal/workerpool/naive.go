package workerpool

import (
	"sync"

	"go.uber.org/zap"
)

// NaivePool spawns a fresh goroutine per Spawn call with no reuse. It is
// the simplest variant and the worst-scaling one under high connection
// churn, kept as the baseline the other two are measured against.
type NaivePool struct {
	wg  sync.WaitGroup
	log *zap.SugaredLogger
}

// NewNaivePool returns a NaivePool. nThreads is accepted to satisfy the
// common pool constructor shape but is unused: this variant has no fixed
// worker count.
func NewNaivePool(nThreads int, log *zap.SugaredLogger) *NaivePool {
	return &NaivePool{log: log}
}

func (p *NaivePool) Spawn(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		recoverAndRun(fn, func(r any) {
			p.log.Errorw("recovered panic in naive pool task", "panic", r)
		})
	}()
}

// Shutdown blocks until every goroutine spawned so far has returned. It
// does not prevent new Spawn calls; naive has no queue to drain or
// sentinel to send.
func (p *NaivePool) Shutdown() {
	p.wg.Wait()
}
