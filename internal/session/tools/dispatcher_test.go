package tools

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixedExecutor struct {
	payload map[string]interface{}
}

func (e fixedExecutor) Execute(context.Context, map[string]interface{}) map[string]interface{} {
	return e.payload
}

type panickingExecutor struct{}

func (panickingExecutor) Execute(context.Context, map[string]interface{}) map[string]interface{} {
	panic("executor exploded")
}

func TestDispatchRoutesToNamedExecutor(t *testing.T) {
	want := map[string]interface{}{"ok": true}
	d := NewDispatcher(testLogger(), map[string]Executor{
		GetMenu: fixedExecutor{payload: want},
	})

	got := d.Dispatch(context.Background(), GetMenu, nil)
	if got["ok"] != true {
		t.Fatalf("got %v, want payload from the registered executor", got)
	}
}

func TestDispatchUnknownToolReturnsStructuredFailure(t *testing.T) {
	d := NewDispatcher(testLogger(), map[string]Executor{})

	got := d.Dispatch(context.Background(), "not_a_real_tool", nil)
	if _, ok := got["error"]; !ok {
		t.Fatalf("got %v, want a payload with an error field", got)
	}
}

func TestDispatchRecoversFromPanickingExecutor(t *testing.T) {
	d := NewDispatcher(testLogger(), map[string]Executor{
		PlaceOrder: panickingExecutor{},
	})

	got := d.Dispatch(context.Background(), PlaceOrder, nil)
	if _, ok := got["error"]; !ok {
		t.Fatalf("got %v, want a structured failure payload even when the executor panics", got)
	}
}

func TestMenuToolFallsBackWhenCacheEmpty(t *testing.T) {
	tool := &MenuTool{}
	got := tool.Execute(context.Background(), nil)
	if got["menu"] != "unavailable" {
		t.Fatalf("got %v, want unavailable fallback for an empty cache", got)
	}
}

func TestMenuToolReturnsCachedText(t *testing.T) {
	tool := &MenuTool{MenuCache: "Pizza $10"}
	got := tool.Execute(context.Background(), nil)
	if got["menu"] != "Pizza $10" {
		t.Fatalf("got %v, want the cached menu text", got)
	}
}

func TestBuildDispatcherWiresAllSixTools(t *testing.T) {
	d := BuildDispatcher(DispatcherConfig{
		TenantID: "tenant-1",
		CallID:   "call-1",
		Logger:   testLogger(),
	})

	for _, name := range []string{GetMenu, PlaceOrder, MakeReservation, CheckOrderStatus, CancelOrModify, TransferToHuman} {
		got := d.Dispatch(context.Background(), name, map[string]interface{}{})
		if _, isUnknown := got["error"]; isUnknown && got["error"] == "That action isn't available right now." {
			t.Fatalf("tool %q is not wired into the dispatcher built by BuildDispatcher", name)
		}
	}
}
