package tools

import "context"

// MenuTool returns the tenant's cached menu text without I/O, per
// spec.md §4.3's get_menu row.
type MenuTool struct {
	MenuCache string
}

func (t *MenuTool) Execute(_ context.Context, _ map[string]interface{}) map[string]interface{} {
	if t.MenuCache == "" {
		return map[string]interface{}{"menu": "unavailable"}
	}
	return map[string]interface{}{"menu": t.MenuCache}
}
