package tools

import (
	"context"
	"log/slog"
	"time"

	"voicegateway/internal/domain/repositories"
)

// OrderTool inserts an order row with items, totals, and contact details,
// per spec.md §4.3's place_order row. Persistence failures are caught and
// converted to a structured failure payload carrying a natural-language
// error field the LLM can voice (spec.md §4.3's "critical contract").
type OrderTool struct {
	Repo     repositories.OrdersRepository
	TenantID string
	CallID   string
	Logger   *slog.Logger
}

func (t *OrderTool) Execute(ctx context.Context, args map[string]interface{}) map[string]interface{} {
	items, total := parseItems(args["items"])

	order := &repositories.Order{
		TenantID:    t.TenantID,
		CallID:      t.CallID,
		Items:       items,
		Total:       total,
		ContactName: stringArg(args, "contact_name"),
		ContactInfo: stringArg(args, "contact_info"),
		CreatedAt:   time.Now(),
	}

	id, err := t.Repo.InsertOrder(ctx, order)
	if err != nil {
		t.Logger.Error("place_order insert failed", "error", err, "tenant_id", t.TenantID)
		return map[string]interface{}{
			"success": false,
			"error":   "We were unable to place your order right now.",
		}
	}

	return map[string]interface{}{
		"success":  true,
		"order_id": id,
		"message":  "Your order has been placed.",
	}
}

func parseItems(raw interface{}) ([]repositories.OrderItem, float64) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, 0
	}

	items := make([]repositories.OrderItem, 0, len(list))
	var total float64
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		qty := 1
		if q, ok := m["quantity"].(float64); ok {
			qty = int(q)
		}
		price, _ := m["price"].(float64)
		item := repositories.OrderItem{
			Name:     stringArg(m, "name"),
			Quantity: qty,
			Price:    price,
		}
		items = append(items, item)
		total += price * float64(qty)
	}
	return items, total
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}
