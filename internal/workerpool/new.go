package workerpool

import (
	"go.uber.org/zap"

	"github.com/iamNilotpal/kvs/pkg/errors"
)

// Variant names the --pool CLI flag accepts.
type Variant string

const (
	VariantNaive       Variant = "naive"
	VariantSharedQueue Variant = "shared-queue"
	VariantRayon       Variant = "rayon"
)

// New constructs the requested pool variant with nThreads workers (or
// concurrency slots, for variants without a fixed worker count).
func New(variant Variant, nThreads int, log *zap.SugaredLogger) (Pool, error) {
	switch variant {
	case VariantNaive:
		return NewNaivePool(nThreads, log), nil
	case VariantSharedQueue:
		return NewSharedQueuePool(nThreads, log), nil
	case VariantRayon:
		return NewRayonPool(nThreads, log), nil
	default:
		return nil, errors.NewValidationError(nil, errors.ErrorCodeInvalidInput, "unknown worker pool variant").
			WithDetail("variant", string(variant))
	}
}
