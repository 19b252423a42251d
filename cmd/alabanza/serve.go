package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alabanza/alabanza/config"
	"github.com/alabanza/alabanza/live"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/repertoire"
	"github.com/alabanza/alabanza/server"
	"github.com/alabanza/alabanza/transpose"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and live session server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func openStore(cfg config.StorageConfig) (repertoire.Store, error) {
	switch cfg.Driver {
	case "memory":
		return repertoire.NewMemoryStore(), nil
	case "sqlite":
		store, err := repertoire.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid storage driver: %s", cfg.Driver)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.WithFields(logging.Fields{
		"component": "serve",
	})

	store, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := transpose.NewTransposer(&cfg.Engine)
	if err != nil {
		return err
	}

	api := server.NewAPI(&cfg.Engine, engine, repertoire.NewService(store, engine), live.NewHub(), cfg.Server.PingInterval)
	srv := server.New(cfg.Server.Addr, server.NewMux(api), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("Server ready", logging.Fields{
		"addr":    cfg.Server.Addr,
		"storage": cfg.Storage.Driver,
		"mode":    cfg.Engine.Mode,
	})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}
