package tools

import "voicegateway/internal/llmclient"

// Schemas returns the fixed tool schema the LLM Client Adapter binds at
// session construction, matching spec.md §4.3's six-tool table. Schema
// shape is static across tenants; only the executors' captured state
// (tenant ID, call ID, menu cache) differs per session.
func Schemas() []llmclient.ToolSchema {
	return []llmclient.ToolSchema{
		{
			Name:        GetMenu,
			Description: "Return the restaurant's current menu as plain text.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{},
				"required":   []string{},
			},
		},
		{
			Name:        PlaceOrder,
			Description: "Place a food order with one or more line items.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{
					"items": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":     map[string]interface{}{"type": "string"},
								"quantity": map[string]interface{}{"type": "integer"},
								"price":    map[string]interface{}{"type": "number"},
							},
						},
					},
					"contact_name": map[string]interface{}{"type": "string"},
					"contact_info": map[string]interface{}{"type": "string"},
				},
				"required": []string{"items"},
			},
		},
		{
			Name:        MakeReservation,
			Description: "Book a table reservation for a given party size and time.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{
					"party_size":   map[string]interface{}{"type": "integer"},
					"when":         map[string]interface{}{"type": "string", "description": "RFC3339 timestamp"},
					"contact_name": map[string]interface{}{"type": "string"},
					"contact_info": map[string]interface{}{"type": "string"},
				},
				"required": []string{"party_size", "when"},
			},
		},
		{
			Name:        CheckOrderStatus,
			Description: "Check the status of a previously placed order.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{
					"order_id": map[string]interface{}{"type": "string"},
				},
				"required": []string{},
			},
		},
		{
			Name:        CancelOrModify,
			Description: "Cancel or modify a previously placed order or reservation.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{
					"reference_id": map[string]interface{}{"type": "string"},
					"instruction":  map[string]interface{}{"type": "string"},
				},
				"required": []string{},
			},
		},
		{
			Name:        TransferToHuman,
			Description: "Escalate the call to a human staff member.",
			InputSchema: map[string]interface{}{
				"properties": map[string]interface{}{
					"reason": map[string]interface{}{"type": "string"},
				},
				"required": []string{},
			},
		},
	}
}

// BuildDispatcher wires one Dispatcher per connecting call, binding the
// tenant-scoped repositories into the order/reservation tools and the
// tenant's cached menu into the menu tool.
func BuildDispatcher(cfg DispatcherConfig) *Dispatcher {
	executors := map[string]Executor{
		GetMenu:          &MenuTool{MenuCache: cfg.MenuCache},
		PlaceOrder:       &OrderTool{Repo: cfg.OrdersRepo, TenantID: cfg.TenantID, CallID: cfg.CallID, Logger: cfg.Logger},
		MakeReservation:  &ReservationTool{Repo: cfg.ReservationsRepo, TenantID: cfg.TenantID, CallID: cfg.CallID, Logger: cfg.Logger},
		CheckOrderStatus: StatusTool{},
		CancelOrModify:   ModifyTool{},
		TransferToHuman:  TransferTool{},
	}
	return NewDispatcher(cfg.Logger, executors)
}
