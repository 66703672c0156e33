package repositories

import (
	"context"

	"voicegateway/internal/domain/models/voice"
)

// TenantsRepository resolves a tenant's store profile at connect time, and
// backs the dashboard's catalog/persona edit surface.
type TenantsRepository interface {
	GetStoreProfile(ctx context.Context, tenantID string) (*voice.StoreProfile, error)
	UpsertStoreProfile(ctx context.Context, profile *voice.StoreProfile) error
}
