package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapsim/heap/server"
)

var serveAddr string

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the allocator over a JSON HTTP API",
		Long: `The serve command exposes one arena over HTTP until interrupted.

Routes:
  GET  /api/stats, /api/blocks, /api/check
  POST /api/allocate {"size": n}
  POST /api/deallocate {"handle": h}
  POST /api/strategy {"strategy": "best-fit"}
  POST /api/reset

Example:
  heapctl serve
  heapctl serve --addr :8080 --capacity 4M`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, localhost:3000)")
	return cmd
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if serveAddr != "" {
		if err := cfg.Server.SetAddr(serveAddr); err != nil {
			return err
		}
	}

	a, err := newAllocator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfo("Memory allocator API running on http://%s\n", cfg.Server.Addr())
	return server.New(a).ListenAndServe(ctx, cfg.Server.Addr())
}
