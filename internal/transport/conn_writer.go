// Package transport hosts the voice connection's wire protocol: a
// WebSocket upgrade per call, framed JSON in each direction, bridging the
// session state machine to the telephony/ASR transport described in
// spec.md §6.
//
// Grounded on the teacher's internal/handler/sse (deleted after this
// package replaced it) for the shape of "one connection, one goroutine
// reading inbound, a thread-safe writer for outbound" — generalized from a
// one-directional SSE stream to a full-duplex WebSocket.
package transport

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coder/websocket"

	"voicegateway/internal/domain/models/voice"
)

// connWriter adapts a *websocket.Conn to session.FrameWriter. Writes are
// serialized with a mutex since the session engine's turn task and greeting
// task can both reach the socket, and coder/websocket does not allow
// concurrent writers on one connection.
type connWriter struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

func newConnWriter(conn *websocket.Conn) *connWriter {
	return &connWriter{conn: conn}
}

func (w *connWriter) WriteFrame(ctx context.Context, frame voice.OutboundFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return w.conn.Write(ctx, websocket.MessageText, payload)
}

func (w *connWriter) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *connWriter) markClosed() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}
