package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"voicegateway/internal/domain"
	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/domain/repositories"
	"voicegateway/internal/llmclient"
	"voicegateway/internal/observability"
	"voicegateway/internal/session"
	"voicegateway/internal/session/tools"
)

// Server is the voice transport's HTTP entrypoint: it accepts a WebSocket
// upgrade per call, resolves the tenant's store profile, constructs a
// Session, and pumps inbound frames into it until the socket closes.
//
// Run as its own net/http server alongside the dashboard/admin fiber app,
// since coder/websocket's Accept operates on http.ResponseWriter directly
// and fiber's fasthttp engine doesn't expose one.
type Server struct {
	PathPrefix    string
	Tenants       repositories.TenantsRepository
	Orders        repositories.OrdersRepository
	Reservations  repositories.ReservationsRepository
	AnthropicKey  string
	DefaultModel  string
	MaxTokens     int64
	StreamTimeout time.Duration
	GreetingHint  string
	Logger        *slog.Logger
	Metrics       *observability.Metrics
	Tracer        *observability.Tracer
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.PathPrefix+"/", s.handleConnect)
	return mux
}

// handleConnect parses <prefix>/<call_id>?tenant_id=<id>, resolves the
// tenant's store profile, and upgrades to a WebSocket, per spec.md §6's
// connect handshake. A missing call_id or tenant_id, an unknown tenant or an
// inactive tenant is rejected with a plain HTTP error status (400, 404 or
// 403) before the upgrade and before touching the session engine; no
// WebSocket connection is opened on these paths, so no WebSocket close code
// (policy-violation or other) is sent.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	callID := strings.TrimPrefix(r.URL.Path, s.PathPrefix+"/")
	callID = strings.Trim(callID, "/")
	tenantID := r.URL.Query().Get("tenant_id")

	if callID == "" || tenantID == "" {
		http.Error(w, "missing call_id or tenant_id", http.StatusBadRequest)
		return
	}

	profile, err := s.Tenants.GetStoreProfile(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "unknown tenant", http.StatusNotFound)
			return
		}
		s.Logger.Error("tenant lookup failed", "error", err, "tenant_id", tenantID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !profile.IsActive() {
		http.Error(w, "tenant inactive", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // telephony bridge talks plain WS from inside the private network
	})
	if err != nil {
		s.Logger.Warn("websocket accept failed", "error", err)
		return
	}

	adapter, err := llmclient.NewAdapter(s.AnthropicKey, s.DefaultModel, profile.SystemPrompt(), tools.Schemas(), s.MaxTokens)
	if err != nil {
		s.Logger.Error("adapter construction failed", "error", err, "tenant_id", tenantID)
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	writer := newConnWriter(conn)
	dispatcher := tools.BuildDispatcher(tools.DispatcherConfig{
		TenantID:         tenantID,
		CallID:           callID,
		MenuCache:        profile.MenuCache,
		OrdersRepo:       s.Orders,
		ReservationsRepo: s.Reservations,
		Logger:           s.Logger,
	})

	sess := session.New(session.Config{
		TenantID:      tenantID,
		CallID:        callID,
		Profile:       profile,
		Adapter:       adapter,
		Dispatcher:    dispatcher,
		Writer:        writer,
		Logger:        s.Logger.With("tenant_id", tenantID, "call_id", callID),
		StreamTimeout: s.StreamTimeout,
		GreetingHint:  s.GreetingHint,
		Metrics:       s.Metrics,
		Tracer:        s.Tracer,
	})

	s.readLoop(r.Context(), conn, writer, sess)
}

// readLoop runs on the connection's own goroutine, classifying each inbound
// frame as it arrives. This is deliberately not inside the turn queue: a
// barge-in must be able to cancel the in-flight generation immediately,
// which requires HandleInbound to run concurrently with whatever the queue
// worker is doing (spec.md §4.5.2).
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, writer *connWriter, sess *session.Session) {
	defer func() {
		writer.markClosed()
		sess.Close()
		conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus != -1 || errors.Is(err, context.Canceled) {
				return
			}
			s.Logger.Debug("websocket read ended", "error", err)
			return
		}

		var frame voice.InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.Logger.Warn("malformed inbound frame, closing connection", "error", err)
			conn.Close(websocket.StatusUnsupportedData, "frames must be JSON")
			return
		}

		sess.HandleInbound(frame)
	}
}
