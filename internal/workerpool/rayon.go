package workerpool

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RayonPool wraps golang.org/x/sync/errgroup with a bounded concurrency
// limit, standing in for a work-stealing fork-join pool: submitted tasks
// run on whichever of up to nThreads slots frees up next, rather than on
// a fixed assignment of tasks to workers.
type RayonPool struct {
	g      *errgroup.Group
	cancel context.CancelFunc
	log    *zap.SugaredLogger
}

// NewRayonPool returns a RayonPool limited to nThreads concurrent tasks.
func NewRayonPool(nThreads int, log *zap.SugaredLogger) *RayonPool {
	if nThreads < 1 {
		nThreads = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(nThreads)

	return &RayonPool{g: g, cancel: cancel, log: log}
}

// Spawn submits fn into the errgroup. If every slot is currently busy,
// Go's errgroup blocks the caller until one frees, which is the
// work-stealing pool's natural back-pressure under sustained load.
func (p *RayonPool) Spawn(fn func()) {
	p.g.Go(func() error {
		recoverAndRun(fn, func(r any) {
			p.log.Errorw("recovered panic in rayon-like pool task", "panic", r)
		})
		return nil
	})
}

// Shutdown waits for all submitted tasks to finish and releases the
// pool's context.
func (p *RayonPool) Shutdown() {
	_ = p.g.Wait()
	p.cancel()
}
