package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"sensor-analytics/internal/config"
	"sensor-analytics/internal/pipeline"
	"sensor-analytics/internal/transport"
	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

const version = "1.0.0"

func main() {
	udsLocation := flag.String("uds-location", "", "Path to the Unix domain socket to exchange payloads with")
	csvLocation := flag.String("csv-location", "", "Path to a local CSV file (development mode)")
	flag.Parse()

	if (*udsLocation == "") == (*csvLocation == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -uds-location or -csv-location must be supplied")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("sensor-analyzer", version, logging.ParseLevel(cfg.Logging.Level))
	metricsCollector := metrics.NewCollector("sensor_analyzer")

	ctx := logging.WithRequestID(context.Background(), uuid.NewString())
	encoding := transport.Encoding(cfg.Payload.Encoding)
	analyzer := pipeline.NewAnalyzer(logger, metricsCollector)

	if *udsLocation != "" {
		runSocket(ctx, cfg, logger, metricsCollector, analyzer, encoding, *udsLocation)
		return
	}
	runFile(ctx, logger, metricsCollector, analyzer, encoding, *csvLocation)
}

// runSocket mirrors the full exchange: fetch the dataset from the
// socket, process it, deliver the result over a fresh connection.
func runSocket(
	ctx context.Context,
	cfg *config.Config,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
	analyzer *pipeline.Analyzer,
	encoding transport.Encoding,
	socketPath string,
) {
	logger.Info(ctx, "[ANALYZER_START] Processing from socket", logging.Fields{
		"version":     version,
		"socket_path": socketPath,
	})

	client := transport.NewClient(socketPath, cfg.Payload.ChunkSize, encoding, logger, metricsCollector)

	payload, err := client.Fetch(ctx)
	if err != nil {
		metricsCollector.RecordRequest("socket", "transport_error")
		logger.Fatal(ctx, "[ANALYZER_ERROR] Failed to fetch payload", logging.Fields{
			"socket_path": socketPath,
		}, err)
	}

	result, err := analyzer.Run(ctx, payload)
	if err != nil {
		metricsCollector.RecordRequest("socket", "pipeline_error")
		logger.Fatal(ctx, "[ANALYZER_ERROR] Pipeline failed", logging.Fields{}, err)
	}

	if err := client.Deliver(ctx, result); err != nil {
		metricsCollector.RecordRequest("socket", "transport_error")
		logger.Fatal(ctx, "[ANALYZER_ERROR] Failed to deliver result", logging.Fields{
			"socket_path": socketPath,
		}, err)
	}

	metricsCollector.RecordRequest("socket", "ok")
	logger.Info(ctx, "[ANALYZER_COMPLETE] Result delivered", logging.Fields{
		"result_bytes": len(result),
	})
}

// runFile processes a local file and prints the result, for offline use.
func runFile(
	ctx context.Context,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
	analyzer *pipeline.Analyzer,
	encoding transport.Encoding,
	filePath string,
) {
	logger.Info(ctx, "[ANALYZER_START] Processing from file", logging.Fields{
		"version":   version,
		"file_path": filePath,
	})

	payload, err := transport.ReadFile(filePath, encoding)
	if err != nil {
		metricsCollector.RecordRequest("file", "transport_error")
		logger.Fatal(ctx, "[ANALYZER_ERROR] Failed to read file", logging.Fields{
			"file_path": filePath,
		}, err)
	}

	result, err := analyzer.Run(ctx, payload)
	if err != nil {
		metricsCollector.RecordRequest("file", "pipeline_error")
		logger.Fatal(ctx, "[ANALYZER_ERROR] Pipeline failed", logging.Fields{}, err)
	}

	metricsCollector.RecordRequest("file", "ok")
	fmt.Print(string(result))
}
