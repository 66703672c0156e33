package config

// Size limits for inbound data. No handler, session or tool code in this
// module references these constants, so none of the limits below is
// enforced.
const (
	// MaxTenantIDLength bounds the tenant_id query parameter accepted on
	// the WebSocket connect URL.
	MaxTenantIDLength = 128

	// MaxCallIDLength bounds the call_id path segment on the WebSocket
	// connect URL.
	MaxCallIDLength = 128

	// MaxTranscriptEntryLength bounds a single inbound transcript entry's
	// content field, to keep a single malformed frame from ballooning
	// history memory.
	MaxTranscriptEntryLength = 4000

	// MaxToolResultPayloadLength bounds the JSON payload a tool result can
	// append to history.
	MaxToolResultPayloadLength = 8000

	// MaxCustomKnowledgeLength bounds a store profile's free-text knowledge
	// field folded into the system prompt.
	MaxCustomKnowledgeLength = 4000
)
