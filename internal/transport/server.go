package transport

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"time"

	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

type phase int

const (
	phaseServe phase = iota
	phaseReceive
)

// Stats is a snapshot of the server's exchange counters, exposed on
// the operational HTTP surface.
type Stats struct {
	DatasetsServed  int       `json:"datasets_served"`
	ResultsReceived int       `json:"results_received"`
	LastExchange    time.Time `json:"last_exchange,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
}

// Server serves a dataset payload over a Unix domain socket and
// collects the processed result. Connections alternate between the
// two roles: the first connection receives the dataset and is closed,
// the next one is drained for the analyzer's result, which is written
// to the result path. Connections are handled one at a time; a request
// is fully processed before the next begins.
type Server struct {
	socketPath string
	dataset    []byte
	resultPath string
	chunkSize  int
	encoding   Encoding
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector

	mu      sync.Mutex
	phase   phase
	stats   Stats
	ln      net.Listener
	closing bool
}

// NewServer creates a new dataset server
func NewServer(socketPath string, dataset []byte, resultPath string, chunkSize int, enc Encoding, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Server {
	return &Server{
		socketPath: socketPath,
		dataset:    dataset,
		resultPath: resultPath,
		chunkSize:  chunkSize,
		encoding:   enc,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Stats returns a snapshot of the exchange counters
func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ListenAndServe accepts connections until the context is canceled or
// Close is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	// A previous run may have left the socket file behind.
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &TransportError{Op: "remove stale socket", Err: err}
	}

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return &TransportError{Op: "listen", Err: err}
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Close()
	}()

	s.logger.Info(ctx, "[SERVER_LISTEN] Dataset server listening", logging.Fields{
		"socket_path":   s.socketPath,
		"dataset_bytes": len(s.dataset),
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.closing
			s.mu.Unlock()
			if closing || ctx.Err() != nil {
				return nil
			}
			return &TransportError{Op: "accept", Err: err}
		}

		s.handle(ctx, conn)
	}
}

// Close stops accepting connections and removes the socket file
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closing = true
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	s.ln = nil
	os.Remove(s.socketPath)
	return err
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	s.metrics.ActiveConnections.Inc()
	defer s.metrics.ActiveConnections.Dec()

	s.mu.Lock()
	current := s.phase
	s.mu.Unlock()

	var err error
	if current == phaseServe {
		err = s.serveDataset(ctx, conn)
	} else {
		err = s.receiveResult(ctx, conn)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastExchange = time.Now().UTC()
	if err != nil {
		s.stats.LastError = err.Error()
		return
	}
	s.stats.LastError = ""
	if current == phaseServe {
		s.phase = phaseReceive
		s.stats.DatasetsServed++
	} else {
		s.phase = phaseServe
		s.stats.ResultsReceived++
	}
}

func (s *Server) serveDataset(ctx context.Context, conn net.Conn) error {
	if _, err := conn.Write(s.dataset); err != nil {
		s.logger.Error(ctx, "[SERVER_SERVE_ERROR] Failed to write dataset", logging.Fields{}, err)
		return &TransportError{Op: "write dataset", Err: err}
	}

	s.metrics.ExchangesTotal.WithLabelValues("serve").Inc()
	s.metrics.ObservePayload("out", len(s.dataset))
	s.logger.Info(ctx, "[SERVER_SERVE] Dataset served", logging.Fields{
		"dataset_bytes": len(s.dataset),
	})
	return nil
}

func (s *Server) receiveResult(ctx context.Context, conn net.Conn) error {
	result, err := ReadPayload(conn, s.chunkSize, s.encoding)
	if err != nil {
		s.logger.Error(ctx, "[SERVER_RECEIVE_ERROR] Failed to read result", logging.Fields{}, err)
		return err
	}

	if err := os.WriteFile(s.resultPath, result, 0644); err != nil {
		s.logger.Error(ctx, "[SERVER_RECEIVE_ERROR] Failed to write result file", logging.Fields{
			"result_path": s.resultPath,
		}, err)
		return &TransportError{Op: "write result file", Err: err}
	}

	s.metrics.ExchangesTotal.WithLabelValues("receive").Inc()
	s.metrics.ObservePayload("in", len(result))
	s.logger.Info(ctx, "[SERVER_RECEIVE] Result stored", logging.Fields{
		"result_path":  s.resultPath,
		"result_bytes": len(result),
	})
	return nil
}
