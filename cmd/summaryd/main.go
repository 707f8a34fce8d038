package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/and161185/metrics-summary/internal/buildinfo"
	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/internal/server"
	"github.com/and161185/metrics-summary/summary/inmemory"
	"github.com/and161185/metrics-summary/summary/postgres"
)

func main() {
	buildinfo.PrintBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.NewServerConfig()

	var (
		storage server.Storage
		err     error
	)
	if config.DatabaseDsn != "" {
		storage, err = postgres.NewStore(ctx, config.DatabaseDsn)
		if err != nil {
			config.Logger.Fatal(err)
		}
	} else {
		storage = inmemory.NewMemStore()
	}

	config.Logger.Infof("Server config: Addr=%s, StoreInterval=%d, FileStoragePath=%q, Restore=%t, DatabaseDSN set=%t",
		config.Addr,
		config.StoreInterval,
		config.FileStoragePath,
		config.Restore,
		config.DatabaseDsn != "",
	)

	srv := server.NewServer(storage, config)
	if err := srv.Run(ctx); err != nil {
		config.Logger.Fatal(err)
	}
}
