package engine

import (
	"context"
	"testing"
	"time"

	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/stretchr/testify/require"
)

func testOptions(dir string) options.Options {
	return options.Options{DataDir: dir, CompactInterval: time.Hour, CompactionThreshold: 1 << 20}
}

func TestGetOnMissingKeyIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	defer e.Close()

	val, found, err := e.Get("missing")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, val)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("k", "v"))
	val, found, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v", val)
}

func TestRemoveMissingKeyFails(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	defer e.Close()

	require.Error(t, e.Remove("missing"))
}

func TestReopenAfterCloseReplaysPriorWrites(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)

	require.NoError(t, e.Set("a", "1"))
	require.NoError(t, e.Set("b", "2"))
	require.NoError(t, e.Remove("a"))
	require.NoError(t, e.Close())

	e2, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	defer e2.Close()

	_, found, err := e2.Get("a")
	require.NoError(t, err)
	require.False(t, found)

	val, found, err := e2.Get("b")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "2", val)
}

func TestSetAndRemoveRejectEmptyKey(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	defer e.Close()

	require.ErrorIs(t, e.Set("", "v"), ErrEmptyKey)
	require.ErrorIs(t, e.Remove(""), ErrEmptyKey)
}

func TestOpenSledRejectsDirectoryWithExistingKVSSegments(t *testing.T) {
	dir := t.TempDir()
	e, err := OpenKVS(context.Background(), testOptions(dir), logger.NewDevelopment("test"))
	require.NoError(t, err)
	require.NoError(t, e.Set("k", "v"))
	require.NoError(t, e.Close())

	_, err = Open(context.Background(), KindSled, testOptions(dir), logger.NewDevelopment("test"))
	require.Error(t, err)
}
