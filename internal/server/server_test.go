package server

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/internal/workerpool"
	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	log := logger.NewDevelopment("test")

	eng, err := engine.OpenKVS(context.Background(), options.Options{
		DataDir:             dir,
		CompactInterval:     time.Hour,
		CompactionThreshold: 1 << 20,
	}, log)
	require.NoError(t, err)

	pool, err := workerpool.New(workerpool.VariantSharedQueue, 4, log)
	require.NoError(t, err)

	srv := New("127.0.0.1:0", eng, pool, log)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	srv.addr = addr
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Serve(ctx)
	t.Cleanup(func() {
		cancel()
		srv.Close()
		eng.Close()
	})

	time.Sleep(50 * time.Millisecond)
	return addr
}

func sendAndRead(t *testing.T, addr, request string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(request))
	require.NoError(t, err)

	reply, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(reply)
}

func TestServerPing(t *testing.T) {
	addr := startTestServer(t)
	reply := sendAndRead(t, addr, "+PING\r\n")
	require.Equal(t, "+PONG\r\n", reply)
}

func TestServerSetThenGet(t *testing.T) {
	addr := startTestServer(t)

	reply := sendAndRead(t, addr, "*3\r\n$3\r\nset\r\n$1\r\nk\r\n$1\r\nv\r\n")
	require.Equal(t, "+OK\r\n", reply)

	reply = sendAndRead(t, addr, "*2\r\n$3\r\nget\r\n$1\r\nk\r\n")
	require.Equal(t, "$1\r\nv\r\n", reply)
}

func TestServerGetMissingKey(t *testing.T) {
	addr := startTestServer(t)
	reply := sendAndRead(t, addr, "*2\r\n$3\r\nget\r\n$7\r\nmissing\r\n")
	require.Equal(t, "-Key not found\r\n", reply)
}

func TestServerRemoveMissingKey(t *testing.T) {
	addr := startTestServer(t)
	reply := sendAndRead(t, addr, "*2\r\n$2\r\nrm\r\n$7\r\nmissing\r\n")
	require.Equal(t, "-Key not found\r\n", reply)
}
