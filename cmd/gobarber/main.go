package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/buildinfo"
	"github.com/dmitrijs2005/gobarber/internal/client/cli"
	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/config"
	"github.com/dmitrijs2005/gobarber/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/gobarber/internal/client/services"
	"github.com/dmitrijs2005/gobarber/internal/client/storage"
	"github.com/dmitrijs2005/gobarber/internal/filex"
	"github.com/dmitrijs2005/gobarber/internal/logging"
	"github.com/dmitrijs2005/gobarber/internal/telemetry"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	shutdown, err := telemetry.Setup(ctx, "gobarber-client", buildinfo.Version, cfg.OTelEndpoint)
	if err != nil {
		logger.Warn(ctx, "tracing disabled", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			logger.Warn(sctx, "flushing traces failed", "error", err)
		}
	}()

	if _, err := filex.EnsureParentDir(cfg.StoragePath); err != nil {
		log.Fatalf("create storage dir: %v", err)
	}
	db, err := storage.InitDatabase(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	api, err := client.NewHTTPClient(cfg.APIBaseURL, client.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		log.Fatalf("%v", err)
	}

	auth := services.NewAuthService(api, credentials.NewStore(db), logger)
	app := cli.NewApp(api, auth, logger, os.Stdin, os.Stdout)

	// the REPL shows the loading route until this finishes
	go func() {
		if err := auth.Restore(ctx); err != nil {
			logger.Error(ctx, "restoring session failed", "error", err)
		}
	}()

	app.Run(ctx)
}
