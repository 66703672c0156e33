package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/llmclient"
)

// erroringAdapter never resolves a real provider call; every test in this
// file exercises the state machine's classification logic, not streaming,
// so the quickest-to-settle fake is one that always fails fast.
type erroringAdapter struct{}

func (erroringAdapter) Stream(ctx context.Context, history []voice.Turn) (*llmclient.StreamHandle, error) {
	return nil, errors.New("no provider in tests")
}

// fakeWriter discards every frame, recording count for assertions that
// don't care about content.
type fakeWriter struct {
	open   bool
	frames []voice.OutboundFrame
}

func (w *fakeWriter) WriteFrame(ctx context.Context, frame voice.OutboundFrame) error {
	w.frames = append(w.frames, frame)
	return nil
}

func (w *fakeWriter) IsOpen() bool { return w.open }

func newTestSession(t *testing.T) (*Session, *fakeWriter) {
	t.Helper()
	writer := &fakeWriter{open: true}
	s := New(Config{
		TenantID: "tenant-1",
		CallID:   "call-1",
		Adapter:  erroringAdapter{},
		Writer:   writer,
		Logger:   newTestLogger(),
	})
	t.Cleanup(s.Close)
	return s, writer
}

func TestHandleUpdateOnlyIgnoredWhenNotGenerating(t *testing.T) {
	s, _ := newTestSession(t)

	tok := NewCancellationToken()
	s.setCurrentToken(tok)
	// isGenerating defaults false.

	s.HandleInbound(voice.InboundFrame{
		InteractionType: voice.InteractionUpdateOnly,
		TurnTaking:      voice.TurnTakingUserTurn,
	})

	if tok.IsCancelled() {
		t.Fatal("update_only while not generating must not cancel the current token")
	}
}

func TestHandleUpdateOnlyIgnoredWhenNotUserTurn(t *testing.T) {
	s, _ := newTestSession(t)

	tok := NewCancellationToken()
	s.setCurrentToken(tok)
	s.setGenerating(true)

	s.HandleInbound(voice.InboundFrame{
		InteractionType: voice.InteractionUpdateOnly,
		TurnTaking:      "agent_turn",
	})

	if tok.IsCancelled() {
		t.Fatal("update_only with turntaking != user_turn must not cancel the current token")
	}
}

func TestHandleUpdateOnlyGenuineBargeInCancelsToken(t *testing.T) {
	s, _ := newTestSession(t)

	tok := NewCancellationToken()
	s.setCurrentToken(tok)
	s.setGenerating(true)

	s.HandleInbound(voice.InboundFrame{
		InteractionType: voice.InteractionUpdateOnly,
		TurnTaking:      voice.TurnTakingUserTurn,
	})

	if !tok.IsCancelled() {
		t.Fatal("genuine barge-in (generating + user_turn) must cancel the current token")
	}
	if s.getCurrentToken() != tok {
		t.Fatal("a barge-in must not replace current_token itself, only cancel it")
	}
}

func TestHandleResponseRequiredInstallsFreshToken(t *testing.T) {
	s, _ := newTestSession(t)

	prev := s.getCurrentToken()

	s.HandleInbound(voice.InboundFrame{
		InteractionType: voice.InteractionResponseRequired,
		ResponseID:      1,
		Transcript:      []voice.TranscriptEntry{{Role: "user", Content: "hello"}},
	})

	next := s.getCurrentToken()
	if next == prev {
		t.Fatal("response_required must install a new current_token")
	}

	// Give the queued task a moment to run and release is_generating; it
	// will fail fast since the adapter always errors.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if !s.isGeneratingNow() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("turn task never released is_generating")
}

func TestHandleUnknownInteractionTypeIgnoredSilently(t *testing.T) {
	s, _ := newTestSession(t)

	tok := s.getCurrentToken()
	s.HandleInbound(voice.InboundFrame{InteractionType: "ping"})

	if s.getCurrentToken() != tok {
		t.Fatal("an unrecognized interaction_type must not mutate session state")
	}
}
