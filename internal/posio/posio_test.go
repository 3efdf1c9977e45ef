package posio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterAppendTracksPosition(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(filepath.Join(dir, "wal_1.log"))
	require.NoError(t, err)
	defer w.Close()

	require.Equal(t, int64(0), w.Pos())

	start, n, err := w.Append([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, int64(0), start)
	require.Equal(t, int64(5), n)
	require.Equal(t, int64(5), w.Pos())

	start, n, err = w.Append([]byte("world!"))
	require.NoError(t, err)
	require.Equal(t, int64(5), start)
	require.Equal(t, int64(6), n)
	require.Equal(t, int64(11), w.Pos())
}

func TestWriterReopenResumesAtEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal_1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, _, err = w.Append([]byte("abcdefgh"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w2, err := OpenWriter(path)
	require.NoError(t, err)
	defer w2.Close()
	require.Equal(t, int64(8), w2.Pos())
}

func TestReaderReadsAtOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal_1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, _, err = w.Append([]byte("abc"))
	require.NoError(t, err)
	_, _, err = w.Append([]byte("defgh"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 3)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "defgh", string(buf))

	size, err := r.Size()
	require.NoError(t, err)
	require.Equal(t, int64(8), size)
}

func TestReaderReadAtPastEndReturnsSegmentCorruptedError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wal_1.log")

	w, err := OpenWriter(path)
	require.NoError(t, err)
	_, _, err = w.Append([]byte("short"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 100)
	_, err = r.ReadAt(buf, 0)
	require.Error(t, err)
}
