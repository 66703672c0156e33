package catalogsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"voicegateway/internal/domain/models/voice"
)

type fakeTenants struct {
	profiles map[string]*voice.StoreProfile
	getErr   error
	upsertErr error
}

func (f *fakeTenants) GetStoreProfile(ctx context.Context, tenantID string) (*voice.StoreProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[tenantID]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (f *fakeTenants) UpsertStoreProfile(ctx context.Context, profile *voice.StoreProfile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profiles[profile.TenantID] = profile
	return nil
}

type fakeSource struct {
	menus map[string]string
	err   error
}

func (f *fakeSource) FetchMenu(ctx context.Context, tenantID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.menus[tenantID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceRefreshesMenuCache(t *testing.T) {
	tenants := &fakeTenants{profiles: map[string]*voice.StoreProfile{
		"tenant-1": {TenantID: "tenant-1", MenuCache: "stale"},
	}}
	source := &fakeSource{menus: map[string]string{"tenant-1": "fresh menu"}}

	s, err := New("@every 1h", tenants, source, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.WithTenantIDs([]string{"tenant-1"})

	s.RunNow()

	if tenants.profiles["tenant-1"].MenuCache != "fresh menu" {
		t.Fatalf("menu cache = %q, want refreshed value", tenants.profiles["tenant-1"].MenuCache)
	}
}

func TestRunOnceSkipsEmptyFetchResult(t *testing.T) {
	tenants := &fakeTenants{profiles: map[string]*voice.StoreProfile{
		"tenant-1": {TenantID: "tenant-1", MenuCache: "keep me"},
	}}
	source := &fakeSource{menus: map[string]string{}} // empty string for every tenant

	s, err := New("@every 1h", tenants, source, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.WithTenantIDs([]string{"tenant-1"})

	s.RunNow()

	if tenants.profiles["tenant-1"].MenuCache != "keep me" {
		t.Fatal("an empty fetch result must not overwrite an existing menu cache")
	}
}

func TestRunOnceContinuesPastPerTenantFailures(t *testing.T) {
	tenants := &fakeTenants{profiles: map[string]*voice.StoreProfile{
		"tenant-2": {TenantID: "tenant-2", MenuCache: "stale"},
	}}
	source := &fakeSource{menus: map[string]string{"tenant-2": "fresh"}}

	s, err := New("@every 1h", tenants, source, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// tenant-1 doesn't exist in the fake repo and will fail lookup; the
	// pass must still refresh tenant-2.
	s.WithTenantIDs([]string{"tenant-1", "tenant-2"})

	s.RunNow()

	if tenants.profiles["tenant-2"].MenuCache != "fresh" {
		t.Fatal("a failed lookup for one tenant must not prevent syncing the rest")
	}
}

func TestNewRejectsInvalidCronSpec(t *testing.T) {
	_, err := New("not a cron spec", &fakeTenants{profiles: map[string]*voice.StoreProfile{}}, &fakeSource{}, discardLogger())
	if err == nil {
		t.Fatal("expected an error for a malformed cron expression")
	}
}
