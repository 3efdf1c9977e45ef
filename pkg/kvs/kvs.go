// Package kvs is the embeddable top-level facade for library consumers
// who want the storage engine without the network server: open a data
// directory, Get/Set/Remove, Close.
//
// Grounded on the teacher's top-level Ignite type, which wires together
// its internal engine/index/storage packages behind exactly this kind of
// small embeddable surface for in-process callers.
package kvs

import (
	"context"

	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
	"go.uber.org/zap"
)

// Instance wraps an Engine for embedding kvs directly into another Go
// program.
type Instance struct {
	eng engine.Engine
	log *zap.SugaredLogger
}

// Open opens the data directory named by the options (options.WithDataDir,
// else the package default) using the given engine kind, applying any
// OptionFuncs on top of the package defaults.
func Open(ctx context.Context, kind engine.Kind, optFns ...options.OptionFunc) (*Instance, error) {
	opts := options.NewDefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	log := logger.New("kvs")
	eng, err := engine.Open(ctx, kind, opts, log)
	if err != nil {
		return nil, err
	}

	return &Instance{eng: eng, log: log}, nil
}

// Get returns the value stored for key, if any. A missing key is not an
// error: found is false and err is nil.
func (i *Instance) Get(key string) (value string, found bool, err error) {
	return i.eng.Get(key)
}

// Set stores value under key, overwriting any prior value.
func (i *Instance) Set(key, value string) error {
	return i.eng.Set(key, value)
}

// Remove deletes key's entry. It returns an error if key has no current
// entry.
func (i *Instance) Remove(key string) error {
	return i.eng.Remove(key)
}

// Close stops the engine's background compactor and flushes and closes its
// active segment. Read handles the engine holds for its segments are not
// closed.
func (i *Instance) Close() error {
	return i.eng.Close()
}
