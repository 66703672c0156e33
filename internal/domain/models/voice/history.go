// Package voice holds the data model shared by the session engine: the
// conversation history, store profile, and wire frame shapes described by
// the gateway's core specification.
package voice

// Role constants for a Turn. Mirrors the teacher's llm.ContentBlock role
// split, collapsed to the two roles the provider's Messages API accepts.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part tags mirror the teacher's BlockType constants, narrowed to the three
// variants a voice turn can carry.
const (
	PartText       = "text"
	PartToolCall   = "tool_call"
	PartToolResult = "tool_result"
)

// Part is a tagged variant: exactly one of the type-specific fields is
// populated, selected by Type.
type Part struct {
	Type string `json:"type"`

	// PartText
	Text string `json:"text,omitempty"`

	// PartToolCall / PartToolResult pairing. CallID ties a tool_result back
	// to the tool_call it answers, which the provider's multi-turn
	// convention requires to match exactly.
	CallID string `json:"call_id,omitempty"`

	// PartToolCall
	ToolName string                 `json:"tool_name,omitempty"`
	ToolArgs map[string]interface{} `json:"tool_args,omitempty"`

	// PartToolResult
	ResultName    string                 `json:"result_name,omitempty"`
	ResultPayload map[string]interface{} `json:"result_payload,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Type: PartText, Text: text} }

// ToolCallPart builds a tool_call part.
func ToolCallPart(callID, name string, args map[string]interface{}) Part {
	return Part{Type: PartToolCall, CallID: callID, ToolName: name, ToolArgs: args}
}

// ToolResultPart builds a tool_result part.
func ToolResultPart(callID, name string, payload map[string]interface{}) Part {
	return Part{Type: PartToolResult, CallID: callID, ResultName: name, ResultPayload: payload}
}

// Turn is one {role, parts} entry in the conversation history.
type Turn struct {
	Role  string
	Parts []Part
}

// ConversationHistory is an ordered sequence of turns. It is mutated only
// by the session state machine, only under the turn serializer, and only
// at well-defined commit points (append or truncate-to-checkpoint).
type ConversationHistory struct {
	turns []Turn
}

// NewConversationHistory returns an empty history.
func NewConversationHistory() *ConversationHistory {
	return &ConversationHistory{}
}

// Len returns the number of turns, used as a checkpoint value.
func (h *ConversationHistory) Len() int {
	return len(h.turns)
}

// Append extends the history with a new turn. Existing turns are never
// edited in place.
func (h *ConversationHistory) Append(t Turn) {
	h.turns = append(h.turns, t)
}

// Truncate resets the history to a previously recorded checkpoint length.
// It never removes turns a concurrent task still needs, because callers
// only invoke it from inside the turn serializer, which gates all mutators
// (Invariant C).
func (h *ConversationHistory) Truncate(checkpoint int) {
	if checkpoint < 0 {
		checkpoint = 0
	}
	if checkpoint > len(h.turns) {
		return
	}
	h.turns = h.turns[:checkpoint]
}

// Snapshot returns a copy of the turns, safe for a caller (e.g. the LLM
// Client Adapter) to range over without observing later mutation.
func (h *ConversationHistory) Snapshot() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}
