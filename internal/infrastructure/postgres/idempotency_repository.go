package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/canchago/go-court-reservation/internal/domain/idempotency"
)

type idempotencyRow struct {
	Operation     string          `db:"operation"`
	Key           string          `db:"idem_key"`
	UserID        string          `db:"user_id"`
	ReservationID string          `db:"reservation_id"`
	Response      json.RawMessage `db:"response"`
	CreatedAt     time.Time       `db:"created_at"`
}

// IdempotencyRepository stores ledger records. The composite primary key
// plus ON CONFLICT DO NOTHING gives PutIfAbsent its single-producer-wins
// guarantee at the storage layer.
type IdempotencyRepository struct {
	db *sqlx.DB
}

func NewIdempotencyRepository(db *sqlx.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) Get(ctx context.Context, op idempotency.Operation, key, userID string) (*idempotency.Record, error) {
	var row idempotencyRow
	query := `SELECT operation, idem_key, user_id, reservation_id, response, created_at
	          FROM idempotency_records
	          WHERE operation = $1 AND idem_key = $2 AND user_id = $3`
	if err := r.db.GetContext(ctx, &row, query, string(op), key, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, idempotency.ErrRecordNotFound
		}
		return nil, fmt.Errorf("fetching idempotency record: %w", err)
	}
	return &idempotency.Record{
		Operation:     idempotency.Operation(row.Operation),
		Key:           row.Key,
		UserID:        row.UserID,
		ReservationID: row.ReservationID,
		Response:      row.Response,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func (r *IdempotencyRepository) PutIfAbsent(ctx context.Context, rec *idempotency.Record) (bool, error) {
	query := `INSERT INTO idempotency_records (operation, idem_key, user_id, reservation_id, response, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (operation, idem_key, user_id) DO NOTHING`
	result, err := r.db.ExecContext(ctx, query,
		string(rec.Operation), rec.Key, rec.UserID, rec.ReservationID, []byte(rec.Response), rec.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("inserting idempotency record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting idempotency record: %w", err)
	}
	return rows == 1, nil
}

var _ idempotency.Store = (*IdempotencyRepository)(nil)
