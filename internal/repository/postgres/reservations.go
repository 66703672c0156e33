package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"voicegateway/internal/domain/repositories"
)

// PostgresReservationsRepository implements repositories.ReservationsRepository.
type PostgresReservationsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

func NewReservationsRepository(config *RepositoryConfig) repositories.ReservationsRepository {
	return &PostgresReservationsRepository{pool: config.Pool, tables: config.Tables}
}

func (r *PostgresReservationsRepository) InsertReservation(ctx context.Context, reservation *repositories.Reservation) (string, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, call_id, party_size, reservation_time, contact_name, contact_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, created_at
	`, r.tables.Reservations)

	exec := GetExecutor(ctx, r.pool)
	var id string
	err := exec.QueryRow(ctx, query,
		reservation.TenantID,
		reservation.CallID,
		reservation.PartySize,
		reservation.When,
		reservation.ContactName,
		reservation.ContactInfo,
	).Scan(&id, &reservation.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert reservation: %w", err)
	}

	return id, nil
}
