package posio

import (
	"io"
	"os"

	"github.com/iamNilotpal/kvs/pkg/errors"
)

// Reader wraps a read-only *os.File for random-access reads at an
// explicit byte offset, the access pattern an index lookup needs: jump
// straight to a record's Position without scanning anything before it.
type Reader struct {
	file *os.File
	path string
}

// OpenReader opens path read-only. The returned Reader is not safe for
// concurrent use by multiple goroutines without external synchronization;
// internal/readerpool holds exactly one Reader per segment behind a
// per-segment mutex for this reason.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, path, path)
	}
	return &Reader{file: f, path: path}, nil
}

// ReadAt reads exactly len(p) bytes starting at offset off, returning an
// error if the segment is shorter than off+len(p) (a truncated tail, see
// spec.md §4.2's "last record may be partially written" note).
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	n, err := r.file.ReadAt(p, off)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return n, errors.NewStorageError(err, errors.ErrorCodeSegmentCorrupted, "segment truncated before expected record end").
				WithPath(r.path).
				WithOffset(off)
		}
		return n, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read segment").
			WithPath(r.path).
			WithOffset(off)
	}
	return n, nil
}

// Size reports the segment's current length on disk.
func (r *Reader) Size() (int64, error) {
	info, err := r.file.Stat()
	if err != nil {
		return 0, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat segment file").
			WithPath(r.path)
	}
	return info.Size(), nil
}

// Close releases the underlying file descriptor.
func (r *Reader) Close() error {
	if err := r.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close segment file").
			WithPath(r.path)
	}
	return nil
}
