package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voicegateway/internal/domain"
	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/domain/repositories"
)

// PostgresTenantsRepository implements repositories.TenantsRepository. A
// store's profile is looked up once, at session connect, and cached in the
// Session for the call's lifetime — this repository is never consulted
// again mid-call.
type PostgresTenantsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewTenantsRepository(config *RepositoryConfig) repositories.TenantsRepository {
	return &PostgresTenantsRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresTenantsRepository) GetStoreProfile(ctx context.Context, tenantID string) (*voice.StoreProfile, error) {
	query := fmt.Sprintf(`
		SELECT tenant_id, persona, hours, location_notes, custom_knowledge, menu_cache, active
		FROM %s
		WHERE tenant_id = $1
	`, r.tables.Tenants)

	var profile voice.StoreProfile
	var active bool
	err := r.pool.QueryRow(ctx, query, tenantID).Scan(
		&profile.TenantID,
		&profile.Persona,
		&profile.Hours,
		&profile.LocationNotes,
		&profile.CustomKnowledge,
		&profile.MenuCache,
		&active,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tenant %s: %w", tenantID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get store profile: %w", err)
	}
	profile.Active = &active

	return &profile, nil
}

func (r *PostgresTenantsRepository) UpsertStoreProfile(ctx context.Context, profile *voice.StoreProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, persona, hours, location_notes, custom_knowledge, menu_cache, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (tenant_id) DO UPDATE SET
			persona = EXCLUDED.persona,
			hours = EXCLUDED.hours,
			location_notes = EXCLUDED.location_notes,
			custom_knowledge = EXCLUDED.custom_knowledge,
			menu_cache = EXCLUDED.menu_cache,
			active = EXCLUDED.active,
			updated_at = now()
	`, r.tables.Tenants)

	_, err := r.pool.Exec(ctx, query,
		profile.TenantID,
		profile.Persona,
		profile.Hours,
		profile.LocationNotes,
		profile.CustomKnowledge,
		profile.MenuCache,
		profile.IsActive(),
	)
	if err != nil {
		return fmt.Errorf("upsert store profile: %w", err)
	}
	return nil
}
