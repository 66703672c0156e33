package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coder/websocket"

	"voicegateway/internal/domain"
	"voicegateway/internal/domain/models/voice"
)

type fakeTenantsRepo struct {
	profiles map[string]*voice.StoreProfile
}

func (f *fakeTenantsRepo) GetStoreProfile(ctx context.Context, tenantID string) (*voice.StoreProfile, error) {
	p, ok := f.profiles[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeTenantsRepo) UpsertStoreProfile(ctx context.Context, profile *voice.StoreProfile) error {
	f.profiles[profile.TenantID] = profile
	return nil
}

func newTestServer(repo *fakeTenantsRepo) *Server {
	return &Server{
		PathPrefix: "/voice",
		Tenants:    repo,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestHandleConnectRejectsMissingCallID(t *testing.T) {
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{}})
	req := httptest.NewRequest(http.MethodGet, "/voice/?tenant_id=t1", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when call_id is missing", rec.Code)
	}
}

func TestHandleConnectRejectsMissingTenantID(t *testing.T) {
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{}})
	req := httptest.NewRequest(http.MethodGet, "/voice/call-1", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when tenant_id is missing", rec.Code)
	}
}

func TestHandleConnectRejectsUnknownTenant(t *testing.T) {
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{}})
	req := httptest.NewRequest(http.MethodGet, "/voice/call-1?tenant_id=ghost", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for an unregistered tenant", rec.Code)
	}
}

func TestHandleConnectRejectsInactiveTenant(t *testing.T) {
	active := false
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{
		"t1": {TenantID: "t1", Active: &active},
	}})
	req := httptest.NewRequest(http.MethodGet, "/voice/call-1?tenant_id=t1", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for an inactive tenant", rec.Code)
	}
}

func TestHandleConnectLookupFailureReturns500(t *testing.T) {
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{}})
	s.Tenants = failingTenantsRepo{err: errors.New("db unreachable")}
	req := httptest.NewRequest(http.MethodGet, "/voice/call-1?tenant_id=t1", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the tenant lookup itself fails", rec.Code)
	}
}

func TestReadLoopClosesConnectionOnMalformedFrame(t *testing.T) {
	s := newTestServer(&fakeTenantsRepo{profiles: map[string]*voice.StoreProfile{
		"t1": {TenantID: "t1", Persona: "a friendly host"},
	}})
	s.AnthropicKey = "test-key"
	s.DefaultModel = "claude-haiku-4-5-20251001"

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/voice/call-1?tenant_id=t1"
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusInternalError, "test cleanup")

	if err := conn.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err = conn.Read(ctx)
	if err == nil {
		t.Fatal("expected the server to close the connection after a malformed frame")
	}
	if got := websocket.CloseStatus(err); got != websocket.StatusUnsupportedData {
		t.Fatalf("close status = %v, want %v", got, websocket.StatusUnsupportedData)
	}
}

type failingTenantsRepo struct{ err error }

func (f failingTenantsRepo) GetStoreProfile(ctx context.Context, tenantID string) (*voice.StoreProfile, error) {
	return nil, f.err
}

func (f failingTenantsRepo) UpsertStoreProfile(ctx context.Context, profile *voice.StoreProfile) error {
	return nil
}
