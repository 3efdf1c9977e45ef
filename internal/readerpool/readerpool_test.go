package readerpool

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/kvs/internal/codec"
	"github.com/iamNilotpal/kvs/internal/index"
	"github.com/iamNilotpal/kvs/internal/posio"
	"github.com/iamNilotpal/kvs/internal/segment"
	"github.com/iamNilotpal/kvs/pkg/checksum"
	"github.com/stretchr/testify/require"
)

func writeSegment(t *testing.T, dir string, n uint64, records []codec.Record, cs checksum.Checksummer) []index.Position {
	t.Helper()
	w, err := posio.OpenWriter(segment.Path(dir, n))
	require.NoError(t, err)
	defer w.Close()

	positions := make([]index.Position, 0, len(records))
	for _, rec := range records {
		encoded, err := codec.Encode(rec, cs)
		require.NoError(t, err)
		start, length, err := w.Append(encoded)
		require.NoError(t, err)
		positions = append(positions, index.Position{SegmentNumber: n, ByteOffset: start, ByteLength: length})
	}
	return positions
}

func TestGetReturnsValueForSetRecord(t *testing.T) {
	dir := t.TempDir()
	cs := checksum.NewCRC32IEEE()
	positions := writeSegment(t, dir, 1, []codec.Record{codec.NewSet("k", "v")}, cs)

	pool := New(dir, cs)
	require.NoError(t, pool.Add(1))

	val, err := pool.Get(positions[0])
	require.NoError(t, err)
	require.Equal(t, "v", val)
}

func TestGetOnRemoveRecordIsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	cs := checksum.NewCRC32IEEE()
	positions := writeSegment(t, dir, 1, []codec.Record{codec.NewRemove("k")}, cs)

	pool := New(dir, cs)
	require.NoError(t, pool.Add(1))

	_, err := pool.Get(positions[0])
	require.Error(t, err)
}

func TestGetWithoutRegisteredSegmentIsSegmentMissing(t *testing.T) {
	dir := t.TempDir()
	cs := checksum.NewCRC32IEEE()
	pool := New(dir, cs)

	_, err := pool.Get(index.Position{SegmentNumber: 7})
	require.Error(t, err)
}

func TestAddTwiceForSameSegmentFails(t *testing.T) {
	dir := t.TempDir()
	cs := checksum.NewCRC32IEEE()
	writeSegment(t, dir, 1, []codec.Record{codec.NewSet("k", "v")}, cs)

	pool := New(dir, cs)
	require.NoError(t, pool.Add(1))
	require.Error(t, pool.Add(1))
}

func TestRetireBelowClosesAndDeletesOlderSegments(t *testing.T) {
	dir := t.TempDir()
	cs := checksum.NewCRC32IEEE()
	writeSegment(t, dir, 1, []codec.Record{codec.NewSet("k", "v")}, cs)
	writeSegment(t, dir, 2, []codec.Record{codec.NewSet("k2", "v2")}, cs)

	pool := New(dir, cs)
	require.NoError(t, pool.Add(1))
	require.NoError(t, pool.Add(2))

	errs := pool.RetireBelow(2)
	require.Empty(t, errs)
	require.Equal(t, 1, pool.Len())

	_, err := os.Stat(filepath.Join(dir, segment.Name(1)))
	require.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(dir, segment.Name(2)))
	require.NoError(t, err)
}
