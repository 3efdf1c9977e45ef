package kvs

import (
	"context"
	"testing"

	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/stretchr/testify/require"
)

func TestOpenSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	inst, err := Open(context.Background(), engine.KindKVS, options.WithDataDir(dir))
	require.NoError(t, err)
	defer inst.Close()

	require.NoError(t, inst.Set("k", "v"))

	val, found, err := inst.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "v", val)

	require.NoError(t, inst.Remove("k"))
	_, found, err = inst.Get("k")
	require.NoError(t, err)
	require.False(t, found)
}

func TestGetOnFreshInstanceFindsNothing(t *testing.T) {
	dir := t.TempDir()
	inst, err := Open(context.Background(), engine.KindKVS, options.WithDataDir(dir))
	require.NoError(t, err)
	defer inst.Close()

	_, found, err := inst.Get("nope")
	require.NoError(t, err)
	require.False(t, found)
}
