package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/iamNilotpal/kvs/pkg/checksum"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAtRoundTripsSet(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	rec := NewSet("greeting", "hello world")

	encoded, err := Encode(rec, cs)
	require.NoError(t, err)

	decoded, n, err := DecodeAt(bytes.NewReader(encoded), 0, cs)
	require.NoError(t, err)
	require.Equal(t, int64(len(encoded)), n)
	require.True(t, decoded.IsSet())
	require.Equal(t, "greeting", decoded.Key)
	require.Equal(t, "hello world", decoded.Value)
}

func TestEncodeDecodeAtRoundTripsRemove(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	rec := NewRemove("greeting")

	encoded, err := Encode(rec, cs)
	require.NoError(t, err)

	decoded, _, err := DecodeAt(bytes.NewReader(encoded), 0, cs)
	require.NoError(t, err)
	require.False(t, decoded.IsSet())
	require.Equal(t, "greeting", decoded.Key)
	require.Empty(t, decoded.Value)
}

func TestEncodeDecodeAtDetectsCorruption(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	encoded, err := Encode(NewSet("k", "v"), cs)
	require.NoError(t, err)

	encoded[headerSize] ^= 0xFF // flip a payload byte without touching the header's checksum

	_, _, err = DecodeAt(bytes.NewReader(encoded), 0, cs)
	require.Error(t, err)
}

func TestDecodeAtReportsByteBoundsAtNonZeroOffset(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	first, err := Encode(NewSet("a", "1"), cs)
	require.NoError(t, err)
	second, err := Encode(NewSet("bb", "22"), cs)
	require.NoError(t, err)

	combined := append(append([]byte{}, first...), second...)

	decoded, n, err := DecodeAt(bytes.NewReader(combined), int64(len(first)), cs)
	require.NoError(t, err)
	require.Equal(t, int64(len(second)), n)
	require.Equal(t, "bb", decoded.Key)
}

func TestStreamDecoderYieldsRecordsWithByteBounds(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	first, err := Encode(NewSet("a", "1"), cs)
	require.NoError(t, err)
	second, err := Encode(NewRemove("a"), cs)
	require.NoError(t, err)

	stream := append(append([]byte{}, first...), second...)
	dec := NewStreamDecoder(bytes.NewReader(stream), cs)

	d1, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, int64(0), d1.StartOffset)
	require.Equal(t, int64(len(first)), d1.EndOffset)
	require.True(t, d1.Record.IsSet())

	d2, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, int64(len(first)), d2.StartOffset)
	require.Equal(t, int64(len(stream)), d2.EndOffset)
	require.False(t, d2.Record.IsSet())

	_, err = dec.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestStreamDecoderReportsTruncatedTailAsCorruption(t *testing.T) {
	cs := checksum.NewCRC32IEEE()
	encoded, err := Encode(NewSet("a", "1"), cs)
	require.NoError(t, err)

	truncated := encoded[:len(encoded)-2] // cut mid-payload, simulating a crash mid-write
	dec := NewStreamDecoder(bytes.NewReader(truncated), cs)

	_, err = dec.Next()
	require.Error(t, err)
	require.NotErrorIs(t, err, io.EOF)
}
