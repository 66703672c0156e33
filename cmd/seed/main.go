// Command seed bootstraps a dev/test database: creates the gateway's
// tables if they don't exist, and optionally writes a sample tenant so a
// voice transport connection has a store profile to resolve against.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"voicegateway/internal/config"
	"voicegateway/internal/domain/models/voice"
	"voicegateway/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "drop all tables before recreating them")
	schemaOnly := flag.Bool("schema-only", false, "create tables only, skip sample tenant")
	clearData := flag.Bool("clear-data", false, "truncate tables without dropping them")
	flag.Parse()

	cfg := config.Load()
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatal("refusing to drop or clear tables against a prod environment")
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("drop tables: %v", err)
		}
		fmt.Println("dropped existing tables")
	}

	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("create schema: %v", err)
	}
	fmt.Println("schema ready")

	if *clearData {
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("clear data: %v", err)
		}
		fmt.Println("cleared table data")
	}

	if *schemaOnly {
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	tenantsRepo := postgres.NewTenantsRepository(repoConfig)

	active := true
	sample := &voice.StoreProfile{
		TenantID:        "demo-tenant",
		Persona:         "You are Pat, the friendly phone assistant for Demo Pizza Co.",
		Hours:           "Open daily 11am-10pm.",
		LocationNotes:   "123 Market Street, walk-in orders welcome.",
		CustomKnowledge: "We do not deliver outside a 5 mile radius.",
		MenuCache:       "Menu: Margherita $14, Pepperoni $16, Veggie Supreme $17, 2L Soda $4.",
		Active:          &active,
	}
	if err := tenantsRepo.UpsertStoreProfile(ctx, sample); err != nil {
		log.Fatalf("seed sample tenant: %v", err)
	}
	fmt.Printf("seeded sample tenant %q\n", sample.TenantID)
}

// runSchema creates the gateway's tables if they don't already exist.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	createTenants := `
		CREATE TABLE IF NOT EXISTS ` + tables.Tenants + ` (
			tenant_id TEXT PRIMARY KEY,
			persona TEXT NOT NULL DEFAULT '',
			hours TEXT NOT NULL DEFAULT '',
			location_notes TEXT NOT NULL DEFAULT '',
			custom_knowledge TEXT NOT NULL DEFAULT '',
			menu_cache TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTenants); err != nil {
		return err
	}

	createOrders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Orders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			tenant_id TEXT NOT NULL,
			call_id TEXT NOT NULL,
			items JSONB NOT NULL,
			total NUMERIC(10,2) NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			contact_info TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createOrders); err != nil {
		return err
	}

	createReservations := `
		CREATE TABLE IF NOT EXISTS ` + tables.Reservations + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			tenant_id TEXT NOT NULL,
			call_id TEXT NOT NULL,
			party_size INTEGER NOT NULL,
			reservation_time TIMESTAMPTZ NOT NULL,
			contact_name TEXT NOT NULL DEFAULT '',
			contact_info TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createReservations); err != nil {
		return err
	}

	createWebhookEvents := `
		CREATE TABLE IF NOT EXISTS ` + tables.WebhookEvents + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			provider TEXT NOT NULL,
			event_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			received_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(provider, event_id)
		)
	`
	if _, err := pool.Exec(ctx, createWebhookEvents); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Orders + `_tenant_id ON ` + tables.Orders + `(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Reservations + `_tenant_id ON ` + tables.Reservations + `(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.WebhookEvents + `_provider ON ` + tables.WebhookEvents + `(provider, event_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse dependency order.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	dropOrder := []string{tables.WebhookEvents, tables.Reservations, tables.Orders, tables.Tenants}
	for _, table := range dropOrder {
		if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+table+` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}

// clearAllData truncates tables without dropping them, leaving the schema
// intact for a faster reset between local test runs.
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	truncateOrder := []string{tables.WebhookEvents, tables.Reservations, tables.Orders, tables.Tenants}
	for _, table := range truncateOrder {
		if _, err := pool.Exec(ctx, `TRUNCATE TABLE `+table+` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}
