// Command dropdb drops this environment's tenant tables, for resetting a
// dev or test database between runs. Never run against prod without
// double-checking TABLE_PREFIX/ENVIRONMENT first.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"voicegateway/internal/config"
	"voicegateway/internal/repository/postgres"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	prefix := config.Load().TablePrefix
	tables := postgres.NewTableNames(prefix)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Orders, tables.Reservations, tables.WebhookEvents, tables.Tenants)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("drop tables: %v", err)
	}

	fmt.Printf("dropped tables with prefix %q\n", prefix)
}
