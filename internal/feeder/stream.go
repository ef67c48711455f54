package feeder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHandshakeTimeout = 30 * time.Second

// StreamSource ingests samples from a live WebSocket stream. Each text
// message is one JSON document, extracted with the same gjson paths as the
// JSON-lines source. The stream ends when the peer closes the connection.
type StreamSource struct {
	conn      *websocket.Conn
	valuePath string
	errorPath string
	unit      Unit
	closed    bool
}

// DialStream connects to a WebSocket endpoint emitting sample events.
func DialStream(ctx context.Context, url, valuePath, errorPath string, unit Unit) (*StreamSource, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: defaultHandshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("stream dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("stream dial failed: %w", err)
	}
	return &StreamSource{
		conn:      conn,
		valuePath: normalizePath(valuePath),
		errorPath: normalizePath(errorPath),
		unit:      unit,
	}, nil
}

// Next blocks until the next message arrives, the peer closes, or the
// context is cancelled. The runner closes the source on cancellation, which
// unblocks the pending read.
func (s *StreamSource) Next(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	msgType, data, err := s.conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Sample{}, ctxErr
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) || s.closed {
			return Sample{}, ErrExhausted
		}
		return Sample{}, fmt.Errorf("stream read: %w", err)
	}
	if msgType != websocket.TextMessage {
		return Sample{}, fmt.Errorf("%w: binary stream message", ErrMalformed)
	}

	return extractSample(string(data), s.valuePath, s.errorPath, s.unit)
}

// Close terminates the stream connection.
func (s *StreamSource) Close() error {
	s.closed = true
	return s.conn.Close()
}
