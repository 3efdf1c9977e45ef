package engine

import (
	"context"

	"github.com/iamNilotpal/kvs/internal/segment"
	"github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/iamNilotpal/kvs/pkg/options"
	"go.uber.org/zap"
)

// Open dispatches to the requested backend. Since the on-disk layout
// carries no control files beyond the segment set, directory/engine
// mismatch is detected by content rather than a marker: if the
// directory already contains wal_<N>.log segments, only KindKVS may open
// it (a sled-backed store would not recognize those files, and a kvs
// store opened where sled data lives would misread it as an empty
// store, hiding the conflict rather than rejecting it).
func Open(ctx context.Context, kind Kind, opts options.Options, log *zap.SugaredLogger) (Engine, error) {
	nums, err := segment.List(opts.DataDir)
	if err != nil {
		return nil, err
	}

	hasKVSSegments := len(nums) > 0

	switch kind {
	case KindKVS:
		return OpenKVS(ctx, opts, log)
	case KindSled:
		if hasKVSSegments {
			return nil, errors.NewStorageError(nil, errors.ErrorCodeInvalidInput, "data directory was previously used with the kvs engine").
				WithPath(opts.DataDir)
		}
		return OpenSled()
	default:
		return nil, errors.NewStorageError(nil, errors.ErrorCodeInvalidInput, "unknown engine kind").
			WithDetail("kind", string(kind))
	}
}
