package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voicegateway/internal/domain/repositories"
)

// PostgresOrdersRepository implements repositories.OrdersRepository,
// grounded on the teacher's PostgresProjectRepository insert/scan shape.
type PostgresOrdersRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewOrdersRepository(config *RepositoryConfig) repositories.OrdersRepository {
	return &PostgresOrdersRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresOrdersRepository) InsertOrder(ctx context.Context, order *repositories.Order) (string, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return "", fmt.Errorf("marshal order items: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, call_id, items, total, contact_name, contact_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at
	`, r.tables.Orders)

	exec := GetExecutor(ctx, r.pool)
	var id string
	err = exec.QueryRow(ctx, query,
		order.TenantID,
		order.CallID,
		items,
		order.Total,
		order.ContactName,
		order.ContactInfo,
	).Scan(&id, &order.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	return id, nil
}
