package transport

import (
	"context"
	"net"

	"sensor-analytics/pkg/logging"
	"sensor-analytics/pkg/metrics"
)

// Client exchanges payloads with the dataset server over a Unix domain
// socket. Matching the original exchange, each direction uses its own
// connection: Fetch drains a connection to EOF, Deliver writes the
// full result on a fresh one.
type Client struct {
	socketPath string
	chunkSize  int
	encoding   Encoding
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// NewClient creates a new socket client
func NewClient(socketPath string, chunkSize int, enc Encoding, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Client {
	return &Client{
		socketPath: socketPath,
		chunkSize:  chunkSize,
		encoding:   enc,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// Fetch connects to the server and reads the request payload until the
// peer closes the write side.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	payload, err := ReadPayload(conn, c.chunkSize, c.encoding)
	if err != nil {
		return nil, err
	}

	c.metrics.ObservePayload("in", len(payload))
	c.logger.Debug(ctx, "[TRANSPORT_FETCH] Payload received", logging.Fields{
		"socket_path":   c.socketPath,
		"payload_bytes": len(payload),
	})

	return payload, nil
}

// Deliver writes the complete result payload back to the server over a
// new connection.
func (c *Client) Deliver(ctx context.Context, result []byte) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(result); err != nil {
		return &TransportError{Op: "write result", Err: err}
	}

	c.metrics.ObservePayload("out", len(result))
	c.logger.Debug(ctx, "[TRANSPORT_DELIVER] Result sent", logging.Fields{
		"socket_path":  c.socketPath,
		"result_bytes": len(result),
	})

	return nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, &TransportError{Op: "dial socket", Err: err}
	}
	return conn, nil
}
