// Package tools is the Tool Dispatcher (spec.md §4.3): it maps named tool
// invocations emitted by the LLM to concrete side-effecting operations and
// is guaranteed never to raise — every execution path, success or
// failure, returns a structured payload map shaped for re-injection as a
// tool_result part.
//
// Grounded on the teacher's internal/service/llm/tools/{registry,executor}.go
// ToolExecutor interface and error-to-payload conversion, narrowed so the
// never-raises contract is enforced at the interface boundary (Execute has
// no error return) rather than by a caller catching one.
package tools

import "context"

// Executor runs one tool. It must not panic and must not block
// indefinitely; ctx carries the turn's deadline. The returned map is
// always JSON-serializable and always usable as a tool_result payload,
// success or failure.
type Executor interface {
	Execute(ctx context.Context, args map[string]interface{}) map[string]interface{}
}
