package session

import (
	"context"

	"voicegateway/internal/domain/models/voice"
)

// greetingResponseID is reserved for the unsolicited greeting, per
// spec.md §3's Outbound frame definition.
const greetingResponseID = 0

// enqueueGreeting is spec.md §4.5.4: enqueued exactly once at connect,
// with its own token, streaming a short opening utterance from a hidden
// single-turn prompt. Nothing from the greeting is committed to history —
// it is ephemeral persona seeding — so a subsequent real turn always
// starts from a clean, empty history. The task is cancellable by an early
// response_required, same as any other turn task, since it shares the
// same current_token/turn-queue mechanism.
func (s *Session) enqueueGreeting() {
	token := NewCancellationToken()
	s.setCurrentToken(token)

	s.queue.Enqueue(func() {
		s.runGreetingTask(token)
	})
}

func (s *Session) runGreetingTask(token *CancellationToken) {
	// superseded reports a barge-in on the greeting's token or a
	// response_required that has installed a newer current_token.
	superseded := func() bool {
		return token.IsCancelled() || s.getCurrentToken() != token
	}
	if superseded() {
		return
	}

	s.setGenerating(true)
	defer s.setGenerating(false)

	hiddenPrompt := s.greeting
	if hiddenPrompt == "" {
		hiddenPrompt = "Greet the caller briefly and ask how you can help."
	}

	ephemeralHistory := []voice.Turn{
		{Role: voice.RoleUser, Parts: []voice.Part{voice.TextPart(hiddenPrompt)}},
	}

	ctx := context.Background()
	handle, err := RaceStream(ctx, s.adapter, ephemeralHistory, token, s.timeout)
	if err != nil {
		s.logger.Warn("greeting stream aborted", "reason", err)
		return
	}

	for chunk := range handle.Chunks() {
		if superseded() {
			return
		}
		if chunk.Text == "" {
			continue
		}
		s.writeFrame(voice.NewOutboundFrame(greetingResponseID, chunk.Text, false))
	}

	if superseded() {
		return
	}

	if _, err := handle.Terminal(); err != nil {
		s.logger.Warn("greeting stream failed", "error", err)
		return
	}
	if superseded() {
		return
	}

	s.writeFrame(voice.NewOutboundFrame(greetingResponseID, "", true))
}
