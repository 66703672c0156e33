// Package session is the Session State Machine (spec.md §4.5), the
// centerpiece of the gateway: per voice connection it owns conversation
// history, the current cancellation token, the generation-in-progress
// flag, and the turn serializer, and it drives the two-phase
// function-calling flow described in spec.md §4.5.3.
//
// Grounded on the teacher's internal/service/llm/streaming.StreamExecutor
// (mstream_adapter.go), which plays the same role against a different
// transport (SSE over an HTTP-persisted turn, instead of a raw WebSocket
// frame protocol): stream, detect a tool call, dispatch it, stream again,
// persist.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/llmclient"
	"voicegateway/internal/observability"
	"voicegateway/internal/session/tools"
)

// FrameWriter is the session's view of the outbound half of the voice
// transport. Implemented by internal/transport's WebSocket frame writer;
// narrowed here so the state machine doesn't depend on any particular
// wire library.
type FrameWriter interface {
	WriteFrame(ctx context.Context, frame voice.OutboundFrame) error
	IsOpen() bool
}

// adapterStreamer is satisfied by *llmclient.Adapter; declared locally so
// tests can substitute a fake without importing llmclient's provider
// plumbing.
type adapterStreamer interface {
	Stream(ctx context.Context, history []voice.Turn) (*llmclient.StreamHandle, error)
}

// Config bundles everything Session needs at construction. All of it is
// captured once at session open, per spec.md §3's Session fields.
type Config struct {
	TenantID      string
	CallID        string
	Profile       *voice.StoreProfile
	Adapter       adapterStreamer
	Dispatcher    *tools.Dispatcher
	Writer        FrameWriter
	Logger        *slog.Logger
	StreamTimeout time.Duration
	GreetingHint  string

	// Metrics is optional; a nil value disables instrumentation entirely
	// rather than requiring callers (and tests) to construct one.
	Metrics *observability.Metrics
	Tracer  *observability.Tracer
}

// Session is a single voice connection's state machine. It is created on
// connect and destroyed on disconnect (spec.md §3).
type Session struct {
	tenantID string
	callID   string
	profile  *voice.StoreProfile
	adapter  adapterStreamer
	history  *voice.ConversationHistory
	dispatch *tools.Dispatcher
	writer   FrameWriter
	logger   *slog.Logger
	timeout  time.Duration
	greeting string

	queue *TurnQueue

	// mu guards currentToken and isGenerating, the two fields the inbound
	// frame classifier touches directly outside the turn serializer
	// (spec.md §4.5.2's response_required/barge-in handling runs on the
	// connection's read loop, not inside a queued task). The serializer
	// still owns every mutation of history.
	mu           sync.Mutex
	currentToken *CancellationToken
	isGenerating bool

	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// New constructs a session and enqueues the greeting task (spec.md
// §4.5.1, step 1). The returned Session is ready to receive inbound
// frames via HandleInbound.
func New(cfg Config) *Session {
	timeout := cfg.StreamTimeout
	if timeout <= 0 {
		timeout = DefaultStreamTimeout
	}

	s := &Session{
		tenantID: cfg.TenantID,
		callID:   cfg.CallID,
		profile:  cfg.Profile,
		adapter:  cfg.Adapter,
		history:  voice.NewConversationHistory(),
		dispatch: cfg.Dispatcher,
		writer:   cfg.Writer,
		logger:   cfg.Logger,
		timeout:  timeout,
		greeting: cfg.GreetingHint,
		queue:    NewTurnQueue(cfg.Logger),
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
	}

	if s.metrics != nil {
		s.metrics.ActiveSessions.Inc()
	}

	s.enqueueGreeting()
	return s
}

// Close trips the in-flight token, if any, and lets the queue drain —
// spec.md §4.5.1 step 3.
func (s *Session) Close() {
	s.mu.Lock()
	token := s.currentToken
	s.mu.Unlock()

	if token != nil {
		token.Cancel()
	}
	s.queue.Close()

	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
}

func (s *Session) setCurrentToken(t *CancellationToken) {
	s.mu.Lock()
	s.currentToken = t
	s.mu.Unlock()
}

func (s *Session) getCurrentToken() *CancellationToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentToken
}

func (s *Session) setGenerating(v bool) {
	s.mu.Lock()
	s.isGenerating = v
	s.mu.Unlock()
}

func (s *Session) isGeneratingNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isGenerating
}

// writeFrame silently no-ops against a closed socket, per spec.md
// §4.5.5's outbound framing rules.
func (s *Session) writeFrame(frame voice.OutboundFrame) {
	if !s.writer.IsOpen() {
		return
	}
	if err := s.writer.WriteFrame(context.Background(), frame); err != nil {
		s.logger.Error("transport write failed", "error", err, "response_id", frame.ResponseID)
	}
}
