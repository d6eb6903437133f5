package pipeline

import (
	"context"
	"time"

	"sensor-analytics/internal/models"
	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

// Analyzer runs the batch aggregation pipeline: load, normalize,
// derive the time bucket, coerce sensor columns, aggregate, serialize.
// Each call to Run processes one complete payload; no state is carried
// between requests.
type Analyzer struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Analyzer {
	return &Analyzer{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Run transforms a complete pipe-delimited request payload into the
// comma-delimited summary payload. The first error encountered aborts
// the request; there is no partial output.
func (a *Analyzer) Run(ctx context.Context, payload []byte) ([]byte, error) {
	timer := a.metrics.NewTimer(a.metrics.PipelineDuration)

	a.logger.Info(ctx, "[PIPELINE_START] Processing payload", logging.Fields{
		"payload_bytes": len(payload),
		"stage":         "LOAD",
	})

	result, err := a.run(ctx, payload)
	duration := timer.ObserveDuration()

	if err != nil {
		a.metrics.RecordPipelineError(ErrorKind(err))
		a.logger.Error(ctx, "[PIPELINE_ERROR] Pipeline aborted", logging.Fields{
			"error_kind":       ErrorKind(err),
			"duration_seconds": duration.Seconds(),
		}, err)
		return nil, err
	}

	a.logger.Info(ctx, "[PIPELINE_COMPLETE] Payload processed", logging.Fields{
		"result_bytes":     len(result),
		"duration_seconds": duration.Seconds(),
		"stage":            "COMPLETE",
	})

	return result, nil
}

func (a *Analyzer) run(ctx context.Context, payload []byte) ([]byte, error) {
	frame, err := a.stage("load", func() (*models.Frame, error) {
		return load(payload)
	})
	if err != nil {
		return nil, err
	}

	loaded := frame.Rows()
	a.metrics.RowsIn.Add(float64(loaded))

	frame, err = a.stage("normalize", func() (*models.Frame, error) {
		return normalize(frame)
	})
	if err != nil {
		return nil, err
	}

	a.metrics.RowsDropped.Add(float64(loaded - frame.Rows()))
	a.logger.Debug(ctx, "[PIPELINE_NORMALIZED] Rows after normalization", logging.Fields{
		"rows_loaded":  loaded,
		"rows_kept":    frame.Rows(),
		"rows_dropped": loaded - frame.Rows(),
	})

	frame, err = a.stage("derive_month", func() (*models.Frame, error) {
		return deriveMonth(frame)
	})
	if err != nil {
		return nil, err
	}

	frame, err = a.stage("coerce", func() (*models.Frame, error) {
		return coerce(frame)
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows := aggregate(frame)
	a.metrics.ObserveStage("aggregate", time.Since(start))
	a.metrics.AggregateRows.Add(float64(len(rows)))

	a.logger.Debug(ctx, "[PIPELINE_AGGREGATED] Aggregate rows produced", logging.Fields{
		"aggregate_rows": len(rows),
	})

	start = time.Now()
	result, err := serialize(rows)
	a.metrics.ObserveStage("serialize", time.Since(start))
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (a *Analyzer) stage(name string, fn func() (*models.Frame, error)) (*models.Frame, error) {
	start := time.Now()
	frame, err := fn()
	a.metrics.ObserveStage(name, time.Since(start))
	return frame, err
}
