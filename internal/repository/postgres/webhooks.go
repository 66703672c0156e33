package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voicegateway/internal/domain/repositories"
)

// PostgresWebhookEventsRepository implements repositories.WebhookEventsRepository.
type PostgresWebhookEventsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewWebhookEventsRepository(config *RepositoryConfig) repositories.WebhookEventsRepository {
	return &PostgresWebhookEventsRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresWebhookEventsRepository) RecordEvent(ctx context.Context, event *repositories.WebhookEvent) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (provider, event_id, payload, received_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, received_at
	`, r.tables.WebhookEvents)

	exec := GetExecutor(ctx, r.pool)
	return exec.QueryRow(ctx, query, event.Provider, event.EventID, event.Payload).
		Scan(&event.ID, &event.ReceivedAt)
}
