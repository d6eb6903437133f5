package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"sensor-analytics/internal/config"
	"sensor-analytics/internal/handlers"
	"sensor-analytics/internal/transport"
	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

const version = "1.0.0"

func main() {
	socketPath := flag.String("uds-location", "", "Path of the Unix domain socket to listen on")
	datasetPath := flag.String("dataset", "", "Path of the CSV dataset to serve to analyzers")
	flag.Parse()

	if *socketPath == "" || *datasetPath == "" {
		fmt.Fprintln(os.Stderr, "both -uds-location and -dataset must be supplied")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("sensor-server", version, logging.ParseLevel(cfg.Logging.Level))
	metricsCollector := metrics.NewCollector("sensor_server")

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting dataset server", logging.Fields{
		"version":      version,
		"socket_path":  *socketPath,
		"dataset_path": *datasetPath,
		"metrics_addr": cfg.Server.MetricsAddr,
	})

	encoding := transport.Encoding(cfg.Payload.Encoding)
	dataset, err := transport.ReadFile(*datasetPath, encoding)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP_ERROR] Failed to read dataset", logging.Fields{
			"dataset_path": *datasetPath,
		}, err)
	}

	server := transport.NewServer(*socketPath, dataset, cfg.Server.ResultPath, cfg.Payload.ChunkSize, encoding, logger, metricsCollector)

	// Operational HTTP surface
	opsHandler := handlers.NewOpsHandler(server, logger)
	router := mux.NewRouter()
	opsHandler.RegisterRoutes(router)

	opsServer := &http.Server{
		Addr:    cfg.Server.MetricsAddr,
		Handler: router,
	}

	go func() {
		logger.Info(ctx, "[OPS_START] Operational HTTP server listening", logging.Fields{
			"address": opsServer.Addr,
		})

		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[OPS_ERROR] Operational server failed", logging.Fields{}, err)
		}
	}()

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe(serveCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})
	case err := <-done:
		if err != nil {
			logger.Error(ctx, "[SERVER_ERROR] Dataset server failed", logging.Fields{}, err)
		}
	}

	cancel()
	server.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Operational server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}
