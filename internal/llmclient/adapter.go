// Package llmclient is the LLM Client Adapter (spec.md §4.1): a thin,
// stateless wrapper over the generative model provider. It hides provider
// vocabulary behind ConversationHistory in, StreamHandle out, so the
// session engine's history stays authoritative and rollback is a local
// operation instead of an attempt to undo provider-side chat state.
//
// Grounded on the teacher's internal/service/llm/provider_factory.go and
// adapters/anthropic_adapter.go: the teacher never calls the Anthropic SDK
// directly, it wraps github.com/haowjy/meridian-llm-go's Provider
// abstraction (providers/anthropic.NewProvider) and converts to/from its
// own types at the boundary in adapters/conversion.go. This adapter does
// the same conversion, narrowed to the one provider and the fixed six-tool
// schema a voice gateway needs. Block/delta field shapes (Content's
// "tool_use_id"/"tool_name"/"input" keys, BlockDelta.TextDelta) follow
// domain/models/llm/turn_block.go's documented tool_use/tool_result
// encoding and adapters/conversion.go's convertFromLibraryEvent.
package llmclient

import (
	"context"
	"fmt"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"

	"voicegateway/internal/domain/models/voice"
)

// ToolSchema statically declares one tool's name, description and JSON
// Schema input shape. Tool schemas are bound at adapter construction, per
// spec.md §4.1.
type ToolSchema struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// ToolCall is the terminal response's tool invocation, if any.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// TerminalResponse is the aggregated response available once a stream
// drains. It carries either accumulated text or a single tool call, never
// both, per spec.md §3's "terminal parts" description.
type TerminalResponse struct {
	Text     string
	ToolCall *ToolCall
}

// Chunk is one incremental fragment of a streaming response. Text is
// already filtered down to this chunk's text-delta pieces, concatenated.
type Chunk struct {
	Text string
}

// StreamHandle exposes a finite, non-restartable sequence of chunks and
// the aggregated terminal response available once that sequence drains.
type StreamHandle struct {
	chunks   chan Chunk
	terminal TerminalResponse
	err      error
}

// Chunks returns the incremental chunk channel. It closes when the
// underlying provider stream completes (successfully or not).
func (h *StreamHandle) Chunks() <-chan Chunk {
	return h.chunks
}

// Terminal returns the aggregated response. Must be called only after
// Chunks() has been drained (ranged to closure); the producing goroutine
// always finishes computing it before closing the channel.
func (h *StreamHandle) Terminal() (TerminalResponse, error) {
	return h.terminal, h.err
}

// Adapter wraps a single meridian-llm-go provider bound to a system
// prompt and tool schema, constructed once per session.
type Adapter struct {
	provider     llmprovider.Provider
	model        string
	systemPrompt string
	tools        []llmprovider.Tool
	maxTokens    int
}

// NewAdapter builds an adapter bound to the given model, system prompt and
// tool schema. The conversation history itself is never bound here — the
// adapter is history-in, stream-out on every call (spec.md §4.1's "why a
// stateless model handle" note).
func NewAdapter(apiKey, model, systemPrompt string, tools []ToolSchema, maxTokens int64) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	provider, err := anthropic.NewProvider(apiKey)
	if err != nil {
		return nil, fmt.Errorf("construct anthropic provider: %w", err)
	}

	converted, err := convertTools(tools)
	if err != nil {
		return nil, fmt.Errorf("convert tool schema: %w", err)
	}

	return &Adapter{
		provider:     provider,
		model:        model,
		systemPrompt: systemPrompt,
		tools:        converted,
		maxTokens:    int(maxTokens),
	}, nil
}

// convertTools maps a ToolSchema slice to the library's tool type via its
// NewCustomTool constructor, grounded on
// domain/models/llm/tool_definition.go's ToLibraryTool: every voice-gateway
// tool carries a full JSON Schema, so only the custom-tool path applies,
// never MapToolByName's built-in lookup.
func convertTools(tools []ToolSchema) ([]llmprovider.Tool, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	result := make([]llmprovider.Tool, 0, len(tools))
	for _, t := range tools {
		tool, err := llmprovider.NewCustomTool(t.Name, t.Description, t.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", t.Name, err)
		}
		result = append(result, *tool)
	}
	return result, nil
}

// Stream issues one streaming generation request over the full history and
// returns immediately with a handle; chunks arrive asynchronously on a
// background goroutine. Errors from the initial request construction (bad
// history) are returned synchronously; errors during streaming surface
// through Terminal().
func (a *Adapter) Stream(ctx context.Context, history []voice.Turn) (*StreamHandle, error) {
	messages, err := convertHistory(history)
	if err != nil {
		return nil, fmt.Errorf("convert history: %w", err)
	}

	maxTokens := a.maxTokens
	params := &llmprovider.RequestParams{MaxTokens: &maxTokens}
	if a.systemPrompt != "" {
		system := a.systemPrompt
		params.System = &system
	}
	if len(a.tools) > 0 {
		params.Tools = a.tools
	}

	events, err := a.provider.StreamResponse(ctx, &llmprovider.GenerateRequest{
		Messages: messages,
		Model:    a.model,
		Params:   params,
	})
	if err != nil {
		return nil, fmt.Errorf("start provider stream: %w", err)
	}

	handle := &StreamHandle{chunks: make(chan Chunk, 8)}

	go func() {
		defer close(handle.chunks)

		var textParts []string
		var toolCall *ToolCall

		for event := range events {
			if event.Error != nil {
				handle.err = fmt.Errorf("provider stream: %w", event.Error)
				return
			}

			if event.Delta != nil && event.Delta.TextDelta != "" {
				select {
				case handle.chunks <- Chunk{Text: event.Delta.TextDelta}:
					textParts = append(textParts, event.Delta.TextDelta)
				case <-ctx.Done():
					handle.err = ctx.Err()
					return
				}
			}

			if event.Block != nil && event.Block.BlockType == "tool_use" {
				toolCall = toolCallFromBlock(event.Block)
			}
		}

		if toolCall != nil {
			handle.terminal = TerminalResponse{ToolCall: toolCall}
			return
		}
		handle.terminal = TerminalResponse{Text: strings.Join(textParts, "")}
	}()

	return handle, nil
}

// toolCallFromBlock extracts a tool invocation from a completed tool_use
// block. Content carries "tool_use_id"/"tool_name"/"input" keys, per the
// teacher's TurnBlock documentation of the provider's tool_use encoding.
func toolCallFromBlock(block *llmprovider.Block) *ToolCall {
	id, _ := block.Content["tool_use_id"].(string)
	name, _ := block.Content["tool_name"].(string)
	args, _ := block.Content["input"].(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return &ToolCall{ID: id, Name: name, Args: args}
}

// convertHistory maps ConversationHistory turns to the library's
// Message/Block shape, grounded on adapters/conversion.go's
// ConvertToLibraryRequest: text parts become text blocks, tool_call parts
// become tool_use blocks, tool_result parts become tool_result blocks. The
// gateway's RoleModel maps to the provider's "assistant" role string, the
// one vocabulary mismatch between the two sides.
func convertHistory(turns []voice.Turn) ([]llmprovider.Message, error) {
	result := make([]llmprovider.Message, 0, len(turns))

	for i, turn := range turns {
		blocks := make([]*llmprovider.Block, 0, len(turn.Parts))
		for _, part := range turn.Parts {
			switch part.Type {
			case voice.PartText:
				text := part.Text
				blocks = append(blocks, &llmprovider.Block{BlockType: "text", TextContent: &text})
			case voice.PartToolCall:
				blocks = append(blocks, &llmprovider.Block{
					BlockType: "tool_use",
					Content: map[string]interface{}{
						"tool_use_id": part.CallID,
						"tool_name":   part.ToolName,
						"input":       part.ToolArgs,
					},
				})
			case voice.PartToolResult:
				blocks = append(blocks, &llmprovider.Block{
					BlockType: "tool_result",
					Content: map[string]interface{}{
						"tool_use_id": part.CallID,
						"result":      part.ResultPayload,
					},
				})
			default:
				return nil, fmt.Errorf("turn %d: unknown part type %q", i, part.Type)
			}
		}

		var role string
		switch turn.Role {
		case voice.RoleUser:
			role = "user"
		case voice.RoleModel:
			role = "assistant"
		default:
			return nil, fmt.Errorf("turn %d: unknown role %q", i, turn.Role)
		}

		result = append(result, llmprovider.Message{Role: role, Blocks: blocks})
	}

	return result, nil
}
