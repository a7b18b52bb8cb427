package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/canchago/go-court-reservation/internal/domain/reservation"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID              string         `db:"id"`
	VenueID         string         `db:"venue_id"`
	CourtID         string         `db:"court_id"`
	UserID          string         `db:"user_id"`
	Date            string         `db:"date"`
	StartMinute     int            `db:"start_minute"`
	EndMinute       int            `db:"end_minute"`
	Status          string         `db:"status"`
	PriceOrigin     string         `db:"price_origin"`
	PriceTariffID   string         `db:"price_tariff_id"`
	PriceCurrency   string         `db:"price_currency"`
	PricePerBlock   int64          `db:"price_per_block"`
	HoldExpiresAt   sql.NullTime   `db:"hold_expires_at"`
	CancelReason    sql.NullString `db:"cancel_reason"`
	CancelledAt     sql.NullTime   `db:"cancelled_at"`
	ConfirmedAt     sql.NullTime   `db:"confirmed_at"`
	HoldKey         sql.NullString `db:"hold_key"`
	ConfirmKey      sql.NullString `db:"confirm_key"`
	CancelKey       sql.NullString `db:"cancel_key"`
	RescheduledFrom sql.NullString `db:"rescheduled_from"`
	RescheduledTo   sql.NullString `db:"rescheduled_to"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

const reservationColumns = `id, venue_id, court_id, user_id, date, start_minute, end_minute, status,
	price_origin, price_tariff_id, price_currency, price_per_block,
	hold_expires_at, cancel_reason, cancelled_at, confirmed_at,
	hold_key, confirm_key, cancel_key, rescheduled_from, rescheduled_to,
	created_at, updated_at`

// ReservationRepository persists reservations in PostgreSQL.
type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("reservation create requires a postgres transaction")
	}

	query := `INSERT INTO reservations
		(venue_id, court_id, user_id, date, start_minute, end_minute, status,
		 price_origin, price_tariff_id, price_currency, price_per_block,
		 hold_expires_at, hold_key, rescheduled_from, confirmed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, $15, $16, $17)
		RETURNING id`

	var holdExpires *time.Time
	if res.Hold != nil {
		holdExpires = &res.Hold.ExpiresAt
	}

	err := sqlxTx.QueryRowContext(ctx, query,
		res.VenueID, res.CourtID, res.UserID,
		res.Slot.Date, int(res.Slot.Start), int(res.Slot.End), string(res.Status),
		res.Price.Origin, res.Price.TariffID, res.Price.Currency, res.Price.AmountPerBlock,
		holdExpires, res.HoldKey, res.RescheduledFrom, res.ConfirmedAt,
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return reservation.ErrHoldKeyExists
		}
		return fmt.Errorf("creating reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("fetching reservation: %w", err)
	}
	return toReservation(&row), nil
}

func (r *ReservationRepository) GetByHoldKey(ctx context.Context, key string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE hold_key = $1`
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("fetching reservation by hold key: %w", err)
	}
	return toReservation(&row), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("listing reservations: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = toReservation(&rows[i])
	}
	return result, nil
}

// ListBlocking excludes expired and cancelled states, and also holds whose
// window already lapsed, so stale holds stop blocking before the sweep runs.
func (r *ReservationRepository) ListBlocking(ctx context.Context, courtID, date string, now time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE court_id = $1 AND date = $2
	            AND status IN ('hold', 'pending', 'confirmed')
	            AND (status <> 'hold' OR hold_expires_at > $3)`
	if err := r.db.SelectContext(ctx, &rows, query, courtID, date, now); err != nil {
		return nil, fmt.Errorf("listing blocking reservations: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = toReservation(&rows[i])
	}
	return result, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errors.New("reservation update requires a postgres transaction")
	}

	var holdExpires *time.Time
	if res.Hold != nil {
		holdExpires = &res.Hold.ExpiresAt
	}
	var cancelReason *string
	var cancelledAt *time.Time
	if res.Cancel != nil {
		cancelReason = &res.Cancel.Reason
		cancelledAt = &res.Cancel.CancelledAt
	}

	query := `UPDATE reservations SET
		status = $1, hold_expires_at = $2, cancel_reason = $3, cancelled_at = $4,
		confirmed_at = $5, confirm_key = NULLIF($6, ''), cancel_key = NULLIF($7, ''),
		rescheduled_to = $8, updated_at = $9
		WHERE id = $10`
	result, err := sqlxTx.ExecContext(ctx, query,
		string(res.Status), holdExpires, cancelReason, cancelledAt,
		res.ConfirmedAt, res.ConfirmKey, res.CancelKey,
		res.RescheduledTo, res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("updating reservation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// ExpireOverdueHolds flips overdue holds to expired in one statement. The
// status guard makes the sweep safe against concurrent confirms and against
// itself.
func (r *ReservationRepository) ExpireOverdueHolds(ctx context.Context, now time.Time) (int, error) {
	query := `UPDATE reservations
	          SET status = 'expired', hold_expires_at = NULL, updated_at = $1
	          WHERE status = 'hold' AND hold_expires_at <= $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("expiring holds: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expiring holds: %w", err)
	}
	return int(rows), nil
}

func toReservation(row *reservationRow) *reservation.Reservation {
	res := &reservation.Reservation{
		ID:      row.ID,
		VenueID: row.VenueID,
		CourtID: row.CourtID,
		UserID:  row.UserID,
		Slot: timeslot.Slot{
			Date:  row.Date,
			Start: timeslot.Clock(row.StartMinute),
			End:   timeslot.Clock(row.EndMinute),
		},
		Status: reservation.Status(row.Status),
		Price: reservation.Price{
			Origin:         row.PriceOrigin,
			TariffID:       row.PriceTariffID,
			Currency:       row.PriceCurrency,
			AmountPerBlock: row.PricePerBlock,
		},
		HoldKey:   row.HoldKey.String,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.HoldExpiresAt.Valid && res.Status == reservation.StatusHold {
		res.Hold = &reservation.HoldWindow{ExpiresAt: row.HoldExpiresAt.Time}
	}
	if row.CancelledAt.Valid {
		res.Cancel = &reservation.Cancellation{
			Reason:      row.CancelReason.String,
			CancelledAt: row.CancelledAt.Time,
		}
	}
	if row.ConfirmedAt.Valid {
		t := row.ConfirmedAt.Time
		res.ConfirmedAt = &t
	}
	if row.ConfirmKey.Valid {
		res.ConfirmKey = row.ConfirmKey.String
	}
	if row.CancelKey.Valid {
		res.CancelKey = row.CancelKey.String
	}
	if row.RescheduledFrom.Valid {
		v := row.RescheduledFrom.String
		res.RescheduledFrom = &v
	}
	if row.RescheduledTo.Valid {
		v := row.RescheduledTo.String
		res.RescheduledTo = &v
	}
	return res
}

var _ reservation.Repository = (*ReservationRepository)(nil)
