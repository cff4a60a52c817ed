// internal/infra/database/postgres_delivery_journal.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homework_status_bot/internal/domain/notification"

	"github.com/lib/pq"
)

// ErrJournalTableMissing is returned when the schema was dropped after startup.
var ErrJournalTableMissing = fmt.Errorf("notification_deliveries table does not exist")

const pqUndefinedTable = "42P01"

type PostgresDeliveryJournal struct {
	db *sql.DB
}

func NewPostgresDeliveryJournal(db *sql.DB) *PostgresDeliveryJournal {
	return &PostgresDeliveryJournal{db: db}
}

// Record appends d and fills its ID and CreatedAt.
func (r *PostgresDeliveryJournal) Record(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO notification_deliveries
               (cycle_id, chat_id, kind, homework_name, status, text, delivered, error)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		d.CycleID, d.ChatID, d.Kind, d.HomeworkName, d.Status, d.Text, d.Delivered, d.Error,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
			return ErrJournalTableMissing
		}
		return fmt.Errorf("error recording notification delivery: %w", err)
	}
	return nil
}
