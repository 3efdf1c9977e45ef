package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/stretchr/testify/require"
)

func TestPoolVariantsRunAllSpawnedTasks(t *testing.T) {
	log := logger.NewDevelopment("test")

	for _, variant := range []Variant{VariantNaive, VariantSharedQueue, VariantRayon} {
		t.Run(string(variant), func(t *testing.T) {
			pool, err := New(variant, 4, log)
			require.NoError(t, err)

			var count int64
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				pool.Spawn(func() {
					defer wg.Done()
					atomic.AddInt64(&count, 1)
				})
			}
			wg.Wait()
			pool.Shutdown()

			require.Equal(t, int64(50), atomic.LoadInt64(&count))
		})
	}
}

func TestPoolVariantsSurviveAPanickingTask(t *testing.T) {
	log := logger.NewDevelopment("test")

	for _, variant := range []Variant{VariantNaive, VariantSharedQueue, VariantRayon} {
		t.Run(string(variant), func(t *testing.T) {
			pool, err := New(variant, 2, log)
			require.NoError(t, err)

			var wg sync.WaitGroup
			wg.Add(1)
			pool.Spawn(func() {
				defer wg.Done()
				panic("boom")
			})
			wg.Wait()

			var ran int64
			var wg2 sync.WaitGroup
			wg2.Add(1)
			pool.Spawn(func() {
				defer wg2.Done()
				atomic.AddInt64(&ran, 1)
			})
			wg2.Wait()
			pool.Shutdown()

			require.Equal(t, int64(1), atomic.LoadInt64(&ran))
		})
	}
}

func TestNewRejectsUnknownVariant(t *testing.T) {
	_, err := New(Variant("bogus"), 2, logger.NewDevelopment("test"))
	require.Error(t, err)
}

func TestSharedQueuePoolShutdownUnblocksWorkers(t *testing.T) {
	pool := NewSharedQueuePool(2, logger.NewDevelopment("test"))
	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown did not return in time")
	}
}
