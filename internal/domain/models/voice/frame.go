package voice

// Interaction type discriminators for inbound frames, per spec.md §6.
const (
	InteractionUpdateOnly       = "update_only"
	InteractionResponseRequired = "response_required"
)

// TurnTaking value that, on an update_only frame while generation is in
// flight, constitutes a genuine barge-in.
const TurnTakingUserTurn = "user_turn"

// TranscriptEntry is one entry of the transcript array carried by a
// response_required frame.
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InboundFrame is the wire shape of a frame arriving on the session
// transport. Every field beyond InteractionType is optional depending on
// the discriminator.
type InboundFrame struct {
	InteractionType string             `json:"interaction_type"`
	ResponseID      int                `json:"response_id,omitempty"`
	Transcript      []TranscriptEntry  `json:"transcript,omitempty"`
	TurnTaking      string             `json:"turntaking,omitempty"`
}

// OutboundFrame is the wire shape written back to the voice transport.
type OutboundFrame struct {
	ResponseType    string `json:"response_type"`
	ResponseID      int    `json:"response_id"`
	Content         string `json:"content"`
	ContentComplete bool   `json:"content_complete"`
	EndCall         bool   `json:"end_call"`
}

// NewOutboundFrame builds a frame with the fixed response_type literal the
// transport expects.
func NewOutboundFrame(responseID int, content string, complete bool) OutboundFrame {
	return OutboundFrame{
		ResponseType:    "response",
		ResponseID:      responseID,
		Content:         content,
		ContentComplete: complete,
	}
}
