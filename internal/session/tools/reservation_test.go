package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicegateway/internal/domain/repositories"
)

type fakeReservationsRepo struct {
	last *repositories.Reservation
	err  error
}

func (f *fakeReservationsRepo) InsertReservation(ctx context.Context, reservation *repositories.Reservation) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.last = reservation
	return "res-456", nil
}

func TestReservationToolParsesWhenAndPartySize(t *testing.T) {
	repo := &fakeReservationsRepo{}
	tool := &ReservationTool{Repo: repo, TenantID: "tenant-1", CallID: "call-1", Logger: testLogger()}

	when := time.Date(2026, 8, 10, 19, 30, 0, 0, time.UTC)
	got := tool.Execute(context.Background(), map[string]interface{}{
		"party_size": float64(4),
		"when":       when.Format(time.RFC3339),
	})

	if got["success"] != true {
		t.Fatalf("got %v, want success", got)
	}
	if got["reservation_id"] != "res-456" {
		t.Fatalf("reservation_id = %v, want res-456", got["reservation_id"])
	}
	if repo.last.PartySize != 4 {
		t.Fatalf("party_size = %d, want 4", repo.last.PartySize)
	}
	if !repo.last.When.Equal(when) {
		t.Fatalf("when = %v, want %v", repo.last.When, when)
	}
}

func TestReservationToolDefaultsPartySizeAndWhen(t *testing.T) {
	repo := &fakeReservationsRepo{}
	tool := &ReservationTool{Repo: repo, TenantID: "tenant-1", CallID: "call-1", Logger: testLogger()}

	before := time.Now()
	tool.Execute(context.Background(), map[string]interface{}{})
	after := time.Now()

	if repo.last.PartySize != 1 {
		t.Fatalf("party_size = %d, want default of 1", repo.last.PartySize)
	}
	if repo.last.When.Before(before) || repo.last.When.After(after) {
		t.Fatalf("when = %v, want defaulted to roughly now", repo.last.When)
	}
}

func TestReservationToolUnparseableWhenFallsBackToNow(t *testing.T) {
	repo := &fakeReservationsRepo{}
	tool := &ReservationTool{Repo: repo, TenantID: "tenant-1", CallID: "call-1", Logger: testLogger()}

	before := time.Now()
	tool.Execute(context.Background(), map[string]interface{}{"when": "not a timestamp"})
	after := time.Now()

	if repo.last.When.Before(before) || repo.last.When.After(after) {
		t.Fatalf("when = %v, want fallback to now on a malformed timestamp", repo.last.When)
	}
}

func TestReservationToolInsertFailureReturnsVoiceSafeError(t *testing.T) {
	repo := &fakeReservationsRepo{err: errors.New("db unavailable")}
	tool := &ReservationTool{Repo: repo, TenantID: "tenant-1", CallID: "call-1", Logger: testLogger()}

	got := tool.Execute(context.Background(), map[string]interface{}{})
	if got["success"] != false {
		t.Fatalf("got %v, want success=false on insert failure", got)
	}
	if _, ok := got["error"]; !ok {
		t.Fatalf("got %v, want an error field the model can voice", got)
	}
}
