// Command kvs-server runs the storage engine behind the RESP-like wire
// server: open a data directory with the requested engine, dispatch
// accepted connections through the requested worker pool variant, and
// serve until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/kvs/internal/buildinfo"
	"github.com/iamNilotpal/kvs/internal/engine"
	"github.com/iamNilotpal/kvs/internal/server"
	"github.com/iamNilotpal/kvs/internal/workerpool"
	"github.com/iamNilotpal/kvs/pkg/logger"
	"github.com/iamNilotpal/kvs/pkg/options"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr     string
		dataDir  string
		engKind  string
		poolKind string
		nThreads int
		showVer  bool
	)

	cmd := &cobra.Command{
		Use:   "kvs-server",
		Short: "Serve a kvs data directory over the wire protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVer {
				fmt.Println(buildinfo.Version)
				return nil
			}
			return run(cmd.Context(), addr, dataDir, engKind, poolKind, nThreads)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6969", "address to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", "/var/lib/kvs", "directory holding segment files")
	cmd.Flags().StringVar(&engKind, "engine", string(engine.KindKVS), "storage engine: kvs or sled")
	cmd.Flags().StringVar(&poolKind, "pool", string(workerpool.VariantSharedQueue), "worker pool: naive, shared-queue, or rayon")
	cmd.Flags().IntVar(&nThreads, "threads", 8, "worker count (ignored by the naive pool)")
	cmd.Flags().BoolVarP(&showVer, "version", "V", false, "print build version and exit")

	return cmd
}

func run(ctx context.Context, addr, dataDir, engKind, poolKind string, nThreads int) error {
	log := logger.New("kvs-server")
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := options.NewDefaultOptions()
	opts.DataDir = dataDir

	eng, err := engine.Open(ctx, engine.Kind(engKind), opts, log)
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer eng.Close()

	pool, err := workerpool.New(workerpool.Variant(poolKind), nThreads, log)
	if err != nil {
		return fmt.Errorf("building worker pool: %w", err)
	}

	srv := server.New(addr, eng, pool, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	select {
	case <-ctx.Done():
		log.Infow("shutting down", "signal", ctx.Err())
		srv.Close()
		return nil
	case err := <-errCh:
		return err
	}
}
