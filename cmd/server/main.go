/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the TVöD pay calculator server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read PAYCALC_* environment, then command-line flags
  2. Initialize zap logger
  3. Open the SQLite table archive
  4. Build the source chain: archive, data directory, remote URL
  5. Create the pay table store and API handler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PAYCALC_ADDRESS)
  -db      SQLite database path (overrides PAYCALC_DB_PATH)
           Use ":memory:" for an in-memory archive

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/paycalc/api"
	"github.com/warp/paycalc/config"
	"github.com/warp/paycalc/paytable"
	"github.com/warp/paycalc/paytable/source"
	"github.com/warp/paycalc/pkg/log"
	"github.com/warp/paycalc/store/sqlite"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()
	if *port != 0 {
		cfg.Address = fmt.Sprintf(":%d", *port)
	}
	cfg.DBPath = *dbPath

	logger := log.InitLog(log.ParseLevel(cfg.LogLevel))
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	// Initialize archive
	archive, err := sqlite.New(cfg.DBPath)
	if err != nil {
		zap.S().Fatalw("failed to initialize database", "path", cfg.DBPath, "error", err)
	}
	defer archive.Close()

	dataDir := source.NewDir(cfg.DataDir)
	sources := source.Chain{archive, dataDir}
	if cfg.DataURL != "" {
		sources = append(sources, source.NewHTTP(cfg.DataURL, cfg.FetchTimeout))
	}

	tables := paytable.NewStore(sources)
	handler := api.NewHandler(tables, archive)
	handler.Seed = dataDir
	router := api.NewRouter(handler, api.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zap.S().Infow("server starting", "address", cfg.Address, "data_dir", cfg.DataDir, "data_url", cfg.DataURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.S().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zap.S().Errorw("server forced to shutdown", "error", err)
	}

	zap.S().Info("server stopped")
}
