package workerpool

import (
	"sync"

	"go.uber.org/zap"
)

// SharedQueuePool runs a fixed number of long-lived worker goroutines
// consuming jobs from a shared channel. A panicking job is recovered
// without killing its worker. Shutdown closes a broadcast channel every
// worker also selects on, unblocking all of them at once, and waits for
// them to exit.
type SharedQueuePool struct {
	jobs chan func()
	done chan struct{}
	wg   sync.WaitGroup
	log  *zap.SugaredLogger
}

// NewSharedQueuePool starts nThreads workers reading from a shared job
// channel.
func NewSharedQueuePool(nThreads int, log *zap.SugaredLogger) *SharedQueuePool {
	if nThreads < 1 {
		nThreads = 1
	}

	p := &SharedQueuePool{
		jobs: make(chan func()),
		done: make(chan struct{}),
		log:  log,
	}

	p.wg.Add(nThreads)
	for i := 0; i < nThreads; i++ {
		go p.worker()
	}

	return p
}

func (p *SharedQueuePool) worker() {
	defer p.wg.Done()
	for {
		select {
		case fn, ok := <-p.jobs:
			if !ok {
				return
			}
			recoverAndRun(fn, func(r any) {
				p.log.Errorw("recovered panic in shared-queue pool task", "panic", r)
			})
		case <-p.done:
			return
		}
	}
}

// Spawn enqueues fn for whichever worker picks it up next. It blocks the
// caller only as long as it takes a worker to receive from the channel;
// when every worker is already running a job the send waits until one
// frees up, which is the back-pressure this variant is meant to apply
// under sustained load.
func (p *SharedQueuePool) Spawn(fn func()) {
	select {
	case p.jobs <- fn:
	case <-p.done:
	}
}

// Shutdown closes the broadcast channel every worker selects on and
// waits for all of them to exit.
func (p *SharedQueuePool) Shutdown() {
	close(p.done)
	p.wg.Wait()
}
