package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetThenGet(t *testing.T) {
	idx := New()
	_, existed := idx.Set("k", Position{SegmentNumber: 1, ByteOffset: 0, ByteLength: 10})
	require.False(t, existed)

	pos, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, uint64(1), pos.SegmentNumber)
}

func TestSetReportsDisplacedPosition(t *testing.T) {
	idx := New()
	idx.Set("k", Position{SegmentNumber: 1, ByteOffset: 0, ByteLength: 10})

	old, existed := idx.Set("k", Position{SegmentNumber: 2, ByteOffset: 5, ByteLength: 20})
	require.True(t, existed)
	require.Equal(t, uint64(1), old.SegmentNumber)

	pos, _ := idx.Get("k")
	require.Equal(t, uint64(2), pos.SegmentNumber)
}

func TestRemoveDeletesEntry(t *testing.T) {
	idx := New()
	idx.Set("k", Position{SegmentNumber: 1})

	old, existed := idx.Remove("k")
	require.True(t, existed)
	require.Equal(t, uint64(1), old.SegmentNumber)

	_, ok := idx.Get("k")
	require.False(t, ok)
}

func TestRemoveMissingKeyReportsNotExisted(t *testing.T) {
	idx := New()
	_, existed := idx.Remove("missing")
	require.False(t, existed)
}

func TestRangeRewritesPositionsInPlace(t *testing.T) {
	idx := New()
	idx.Set("a", Position{SegmentNumber: 1, ByteOffset: 0, ByteLength: 5})
	idx.Set("b", Position{SegmentNumber: 1, ByteOffset: 5, ByteLength: 5})

	idx.Range(func(key string, pos Position) Position {
		pos.SegmentNumber = 99
		return pos
	})

	posA, _ := idx.Get("a")
	posB, _ := idx.Get("b")
	require.Equal(t, uint64(99), posA.SegmentNumber)
	require.Equal(t, uint64(99), posB.SegmentNumber)
}

func TestConcurrentAccessToDistinctKeysDoesNotRace(t *testing.T) {
	idx := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			idx.Set(key, Position{SegmentNumber: uint64(n)})
			idx.Get(key)
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, idx.Len(), 26)
}
