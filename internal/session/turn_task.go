package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/llmclient"
)

const (
	nudgeMessage   = "I'm listening…"
	apologyMessage = "I'm sorry, could you please say that again?"
)

// runTurnTask is the two-phase function-calling flow, spec.md §4.5.3.
// Invoked from inside the turn queue, so it runs with exclusive access to
// history.
func (s *Session) runTurnTask(responseID int, transcript []voice.TranscriptEntry, token *CancellationToken) {
	// Step 1: stale check. A newer frame superseded this one.
	if s.getCurrentToken() != token {
		return
	}

	// Step 2: set is_generating = true as the first statement before any
	// suspension point, released via scope-exit no matter which branch
	// below returns — the central freeze-prevention invariant (spec.md
	// §5).
	s.setGenerating(true)
	defer s.setGenerating(false)

	userText := strings.TrimSpace(lastUserText(transcript))
	if userText == "" {
		s.writeFrame(voice.NewOutboundFrame(responseID, nudgeMessage, true))
		return
	}

	checkpoint := s.history.Len()
	s.history.Append(voice.Turn{Role: voice.RoleUser, Parts: []voice.Part{voice.TextPart(userText)}})

	ctx := context.Background()
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.StartTurn(ctx, s.tenantID, responseID)
		defer span.End()
	}

	s.runGenerationPhases(ctx, responseID, checkpoint, token)
}

// recordTurnOutcome is a no-op when metrics are disabled.
func (s *Session) recordTurnOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	}
}

// runGenerationPhases drives phase 1, the tool-call branch (phase 2 if
// needed), and the terminal frame, per spec.md §4.5.3 steps 5-8.
func (s *Session) runGenerationPhases(ctx context.Context, responseID, checkpoint int, token *CancellationToken) {
	terminal, err := s.streamPhase(ctx, responseID, token)
	if err != nil {
		s.handlePhaseError(err, checkpoint, token, responseID)
		return
	}

	if terminal.ToolCall == nil {
		s.history.Append(voice.Turn{Role: voice.RoleModel, Parts: []voice.Part{voice.TextPart(terminal.Text)}})
		s.writeFrame(voice.NewOutboundFrame(responseID, "", true))
		s.recordTurnOutcome("completed")
		return
	}

	call := terminal.ToolCall
	s.history.Append(voice.Turn{
		Role:  voice.RoleModel,
		Parts: []voice.Part{voice.ToolCallPart(call.ID, call.Name, call.Args)},
	})

	if token.IsCancelled() {
		s.history.Truncate(checkpoint)
		s.recordTurnOutcome("cancelled")
		return
	}

	payload := s.dispatchTool(ctx, call.Name, call.Args)

	if token.IsCancelled() {
		s.history.Truncate(checkpoint)
		s.recordTurnOutcome("cancelled")
		return
	}

	s.history.Append(voice.Turn{
		Role:  voice.RoleUser,
		Parts: []voice.Part{voice.ToolResultPart(call.ID, call.Name, payload)},
	})

	terminal2, err := s.streamPhase(ctx, responseID, token)
	if err != nil {
		s.handlePhaseError(err, checkpoint, token, responseID)
		return
	}

	s.history.Append(voice.Turn{Role: voice.RoleModel, Parts: []voice.Part{voice.TextPart(terminal2.Text)}})
	s.writeFrame(voice.NewOutboundFrame(responseID, "", true))
	s.recordTurnOutcome("completed")
}

// dispatchTool wraps the dispatcher call with a trace span and latency
// histogram, keeping the never-raises contract: timing/tracing are pure
// observation and never affect the returned payload.
func (s *Session) dispatchTool(ctx context.Context, name string, args map[string]interface{}) map[string]interface{} {
	start := time.Now()
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.StartToolDispatch(ctx, name)
		defer span.End()
	}

	payload := s.dispatch.Dispatch(ctx, name, args)

	if s.metrics != nil {
		outcome := "ok"
		if _, failed := payload["error"]; failed {
			outcome = "error"
		}
		s.metrics.ToolCallsTotal.WithLabelValues(name, outcome).Inc()
		s.metrics.ToolCallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}

	return payload
}

// streamPhase implements the shared shape of steps 5-7: race the stream,
// emit a partial frame per non-empty text chunk while the token is still
// live, then drain the terminal response and re-check cancellation.
func (s *Session) streamPhase(ctx context.Context, responseID int, token *CancellationToken) (llmclient.TerminalResponse, error) {
	handle, err := RaceStream(ctx, s.adapter, s.history.Snapshot(), token, s.timeout)
	if err != nil {
		return llmclient.TerminalResponse{}, err
	}

	for chunk := range handle.Chunks() {
		if token.IsCancelled() {
			break
		}
		if chunk.Text == "" {
			continue
		}
		s.writeFrame(voice.NewOutboundFrame(responseID, chunk.Text, false))
	}

	if token.IsCancelled() {
		return llmclient.TerminalResponse{}, ErrCancelled
	}

	terminal, err := handle.Terminal()
	if err != nil {
		return llmclient.TerminalResponse{}, err
	}
	if token.IsCancelled() {
		return llmclient.TerminalResponse{}, ErrCancelled
	}

	return terminal, nil
}

// handlePhaseError implements spec.md §4.5.3 step 10's error class
// distinction: Cancelled/TimedOut truncate and exit silently; any other
// error truncates and emits an apology frame, provided the socket is
// still open and the token isn't cancelled.
func (s *Session) handlePhaseError(err error, checkpoint int, token *CancellationToken, responseID int) {
	s.history.Truncate(checkpoint)

	if errors.Is(err, ErrCancelled) {
		s.logger.Warn("turn aborted", "response_id", responseID, "reason", err)
		s.recordAbort("cancelled")
		s.recordTurnOutcome("cancelled")
		return
	}
	if errors.Is(err, ErrTimedOut) {
		s.logger.Warn("turn aborted", "response_id", responseID, "reason", err)
		s.recordAbort("timed_out")
		s.recordTurnOutcome("timed_out")
		return
	}

	s.logger.Error("turn stream failed", "response_id", responseID, "error", err)
	s.recordAbort("provider_error")
	s.recordTurnOutcome("failed")
	if !token.IsCancelled() && s.writer.IsOpen() {
		s.writeFrame(voice.NewOutboundFrame(responseID, apologyMessage, true))
	}
}

func (s *Session) recordAbort(reason string) {
	if s.metrics != nil {
		s.metrics.StreamAborts.WithLabelValues(reason).Inc()
	}
}

func lastUserText(transcript []voice.TranscriptEntry) string {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].Role == voice.RoleUser {
			return transcript[i].Content
		}
	}
	return ""
}
