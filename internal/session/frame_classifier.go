package session

import "voicegateway/internal/domain/models/voice"

// HandleInbound classifies one inbound frame and reacts per spec.md
// §4.5.2. Called from the connection's read loop — not from inside the
// turn queue, since it must be able to trip a barge-in immediately rather
// than wait for a deferred task's turn.
func (s *Session) HandleInbound(frame voice.InboundFrame) {
	switch frame.InteractionType {
	case voice.InteractionUpdateOnly:
		s.handleUpdateOnly(frame)
	case voice.InteractionResponseRequired:
		s.handleResponseRequired(frame)
	default:
		// ping, call-ended, etc. — ignore silently.
	}
}

// handleUpdateOnly is a no-op unless it is a genuine barge-in: generation
// must be in flight AND the turntaking field must be exactly "user_turn".
// update_only arrives constantly during normal user speech; treating every
// one as a barge-in would cause spurious interruptions (spec.md §4.5.2).
func (s *Session) handleUpdateOnly(frame voice.InboundFrame) {
	if !s.isGeneratingNow() {
		return
	}
	if frame.TurnTaking != voice.TurnTakingUserTurn {
		return
	}

	token := s.getCurrentToken()
	if token != nil {
		token.Cancel()
		if s.metrics != nil {
			s.metrics.BargeInsTotal.Inc()
		}
	}
	// current_token itself is left untouched — the next response_required
	// frame is what replaces it.
}

// handleResponseRequired is a start trigger, not a cancel trigger: the
// previous turn's task, if still running, proceeds to completion unless a
// subsequent genuine barge-in cancels it. Overlapping work is prevented by
// the serializer, not by cancelling here (spec.md §4.5.2).
func (s *Session) handleResponseRequired(frame voice.InboundFrame) {
	token := NewCancellationToken()
	s.setCurrentToken(token)

	responseID := frame.ResponseID
	transcript := frame.Transcript

	s.queue.Enqueue(func() {
		s.runTurnTask(responseID, transcript, token)
	})
}
