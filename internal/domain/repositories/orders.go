package repositories

import (
	"context"
	"time"
)

// OrderItem is one line item of a phone order.
type OrderItem struct {
	Name     string
	Quantity int
	Price    float64
}

// Order is the row the Tool Dispatcher's place_order tool inserts. All
// inserts include TenantID and a timestamp, per spec.md §6's persistence
// layer contract.
type Order struct {
	ID          string
	TenantID    string
	CallID      string
	Items       []OrderItem
	Total       float64
	ContactName string
	ContactInfo string
	CreatedAt   time.Time
}

// Reservation is the row the make_reservation tool inserts.
type Reservation struct {
	ID          string
	TenantID    string
	CallID      string
	PartySize   int
	When        time.Time
	ContactName string
	ContactInfo string
	CreatedAt   time.Time
}

// OrdersRepository exposes the single insert-order operation the Tool
// Dispatcher needs. Failures are not retried by the core (spec.md §6);
// they surface as voice-safe failure payloads to the LLM.
type OrdersRepository interface {
	InsertOrder(ctx context.Context, order *Order) (string, error)
}

// ReservationsRepository exposes the single insert-reservation operation
// the Tool Dispatcher needs.
type ReservationsRepository interface {
	InsertReservation(ctx context.Context, reservation *Reservation) (string, error)
}
