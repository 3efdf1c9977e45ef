// Package writer owns the active segment's append handle and is the
// only component that ever appends to a segment file. Every Set and
// Remove passes through here so the active segment, the index, and the
// uncompacted-byte counter stay in lock-step.
//
// Grounded on the teacher's storage.go write path (New/openSegmentFile's
// single always-current active segment and size bookkeeping),
// generalized to this store's active/compaction-target split and its
// non-blocking compaction trigger.
package writer

import (
	"sync"

	"github.com/iamNilotpal/kvs/internal/codec"
	"github.com/iamNilotpal/kvs/internal/index"
	"github.com/iamNilotpal/kvs/internal/posio"
	"github.com/iamNilotpal/kvs/internal/readerpool"
	"github.com/iamNilotpal/kvs/internal/segment"
	"github.com/iamNilotpal/kvs/pkg/checksum"
	"github.com/iamNilotpal/kvs/pkg/errors"
	"go.uber.org/zap"
)

// Writer serializes appends to the active segment and keeps the index
// and uncompacted-byte counter consistent with what has actually reached
// disk.
type Writer struct {
	mu sync.Mutex

	dir                 string
	active              uint64
	activeWriter        *posio.Writer
	uncompacted         uint64
	compactionThreshold uint64

	idx    *index.Index
	pool   *readerpool.Pool
	cs     checksum.Checksummer
	log    *zap.SugaredLogger
	signal chan struct{} // buffered size 1; non-blocking compaction trigger
}

// New constructs a Writer whose active segment is activeSegment,
// appending through w. The caller has already opened w via posio and
// registered activeSegment with pool.
func New(
	dir string,
	activeSegment uint64,
	w *posio.Writer,
	idx *index.Index,
	pool *readerpool.Pool,
	cs checksum.Checksummer,
	compactionThreshold uint64,
	log *zap.SugaredLogger,
) *Writer {
	return &Writer{
		dir:                 dir,
		active:              activeSegment,
		activeWriter:        w,
		idx:                 idx,
		pool:                pool,
		cs:                  cs,
		compactionThreshold: compactionThreshold,
		log:                 log,
		signal:              make(chan struct{}, 1),
	}
}

// CompactionSignal returns the channel a compactor should select on to
// learn that the uncompacted counter has crossed the threshold. Sends
// are best-effort: a full channel means a compaction is already pending,
// so the writer never blocks on this.
func (w *Writer) CompactionSignal() <-chan struct{} {
	return w.signal
}

// Set appends a Set record for k=v to the active segment, updates the
// index, and credits any displaced record's length to the uncompacted
// counter.
func (w *Writer) Set(k, v string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rec := codec.NewSet(k, v)
	encoded, err := codec.Encode(rec, w.cs)
	if err != nil {
		return err
	}

	start, length, err := w.activeWriter.Append(encoded)
	if err != nil {
		return err
	}

	old, existed := w.idx.Set(k, index.Position{SegmentNumber: w.active, ByteOffset: start, ByteLength: length})
	if existed {
		w.addUncompacted(uint64(old.ByteLength))
	}

	return nil
}

// Remove appends a Remove (tombstone) record for k, deletes its index
// entry, and credits the displaced record's length to the uncompacted
// counter. It fails with ErrorCodeIndexKeyNotFound if k has no current
// entry; per this store's canonical behaviour, no tombstone is written
// in that case.
func (w *Writer) Remove(k string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	old, existed := w.idx.Get(k)
	if !existed {
		return errors.NewIndexError(nil, errors.ErrorCodeIndexKeyNotFound, "key not found").WithKey(k)
	}

	rec := codec.NewRemove(k)
	encoded, err := codec.Encode(rec, w.cs)
	if err != nil {
		return err
	}

	if _, err := w.activeWriter.Append(encoded); err != nil {
		return err
	}

	w.idx.Remove(k)
	w.addUncompacted(uint64(old.ByteLength))

	return nil
}

// addUncompacted credits n bytes to the uncompacted counter and signals
// a waiting compactor, without blocking, if the threshold is crossed.
// Callers hold w.mu already.
func (w *Writer) addUncompacted(n uint64) {
	w.uncompacted += n
	if w.uncompacted >= w.compactionThreshold {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}

// Uncompacted reports the current uncompacted-byte counter.
func (w *Writer) Uncompacted() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.uncompacted
}

// ResetUncompacted zeroes the counter. Called by a compactor after a
// successful compaction pass.
func (w *Writer) ResetUncompacted() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.uncompacted = 0
}

// Active reports the current active segment number.
func (w *Writer) Active() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Rotate closes the current active segment's writer and opens newActive
// as the new one, creating its file under the writer's directory. The
// compactor calls this after opening the compaction segment and before
// copying any records, so that appends made during compaction land above
// the compaction target.
func (w *Writer) Rotate(newActive uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.activeWriter.Close(); err != nil {
		w.log.Warnw("failed to close previous active segment cleanly", "segment", w.active, "error", err)
	}

	nw, err := posio.OpenWriter(segment.Path(w.dir, newActive))
	if err != nil {
		return err
	}

	w.active = newActive
	w.activeWriter = nw
	return nil
}

// Close flushes and closes the active segment.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeWriter.Close()
}
