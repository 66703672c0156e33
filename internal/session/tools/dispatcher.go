package tools

import (
	"context"
	"log/slog"

	"voicegateway/internal/domain/repositories"
)

// DispatcherConfig bundles the tenant-scoped state BuildDispatcher needs to
// construct the six tools for one connecting call.
type DispatcherConfig struct {
	TenantID         string
	CallID           string
	MenuCache        string
	OrdersRepo       repositories.OrdersRepository
	ReservationsRepo repositories.ReservationsRepository
	Logger           *slog.Logger
}

// Names of the six tools the session state machine's prompt declares,
// per spec.md §4.3's table.
const (
	GetMenu           = "get_menu"
	PlaceOrder        = "place_order"
	MakeReservation   = "make_reservation"
	CheckOrderStatus  = "check_order_status"
	CancelOrModify    = "cancel_or_modify"
	TransferToHuman   = "transfer_to_human"
)

// Dispatcher owns the name -> Executor mapping for one session and
// enforces the never-raises contract even against a misbehaving
// executor: a panicking tool is caught and turned into the same kind of
// voice-safe failure payload a returned error would produce, so the
// session's release point (is_generating = false) is never bypassed by an
// unexpected exception (spec.md §4.3).
type Dispatcher struct {
	executors map[string]Executor
	logger    *slog.Logger
}

// NewDispatcher builds a dispatcher with the given name -> Executor table.
func NewDispatcher(logger *slog.Logger, executors map[string]Executor) *Dispatcher {
	return &Dispatcher{executors: executors, logger: logger}
}

// Dispatch runs the named tool and always returns a payload map, never an
// error.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]interface{}) (payload map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool executor panicked", "tool", name, "panic", r)
			payload = map[string]interface{}{
				"error": "We ran into a problem handling that. Could you try again?",
			}
		}
	}()

	executor, ok := d.executors[name]
	if !ok {
		d.logger.Warn("unknown tool requested by model", "tool", name)
		return map[string]interface{}{
			"error": "That action isn't available right now.",
		}
	}

	return executor.Execute(ctx, args)
}
