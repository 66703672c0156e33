package tools

import "context"

// StatusTool backs check_order_status, deferred per spec.md §4.3.
type StatusTool struct{}

func (StatusTool) Execute(context.Context, map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  "under_construction",
		"message": "I can't check order status yet, but I can take a new order or reservation.",
	}
}

// ModifyTool backs cancel_or_modify, deferred per spec.md §4.3.
type ModifyTool struct{}

func (ModifyTool) Execute(context.Context, map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  "under_construction",
		"message": "I can't change an existing order yet. I can start a new one if that helps.",
	}
}

// TransferTool signals escalation and returns immediately; the actual
// transfer mechanics are out of scope (spec.md §4.3, §9's end_call note).
type TransferTool struct{}

func (TransferTool) Execute(context.Context, map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status":  "transferring",
		"message": "One moment, I'll connect you with someone who can help.",
	}
}
