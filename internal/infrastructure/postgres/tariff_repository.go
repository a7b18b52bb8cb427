package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

type tariffRow struct {
	ID            string         `db:"id"`
	VenueID       string         `db:"venue_id"`
	CourtID       sql.NullString `db:"court_id"`
	Weekday       int            `db:"weekday"`
	StartMinute   int            `db:"start_minute"`
	EndMinute     int            `db:"end_minute"`
	PricePerBlock int64          `db:"price_per_block"`
	Currency      string         `db:"currency"`
	Active        bool           `db:"active"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// TariffRepository reads tariff records.
type TariffRepository struct {
	db *sqlx.DB
}

func NewTariffRepository(db *sqlx.DB) *TariffRepository {
	return &TariffRepository{db: db}
}

const tariffColumns = `id, venue_id, court_id, weekday, start_minute, end_minute, price_per_block, currency, active, created_at, updated_at`

// FindApplicableForCourt returns the newest court-scoped tariff whose window
// covers [start, end) on the weekday. Ordering by created_at breaks ties
// when administration let overlapping windows through.
func (r *TariffRepository) FindApplicableForCourt(ctx context.Context, courtID string, day time.Weekday, start, end timeslot.Clock) (*tariff.Tariff, error) {
	query := `SELECT ` + tariffColumns + ` FROM tariffs
	          WHERE court_id = $1 AND weekday = $2 AND start_minute <= $3 AND end_minute >= $4 AND active
	          ORDER BY created_at DESC LIMIT 1`
	return r.findOne(ctx, query, courtID, int(day), int(start), int(end))
}

// FindApplicableForVenue is the venue-wide fallback (court_id IS NULL).
func (r *TariffRepository) FindApplicableForVenue(ctx context.Context, venueID string, day time.Weekday, start, end timeslot.Clock) (*tariff.Tariff, error) {
	query := `SELECT ` + tariffColumns + ` FROM tariffs
	          WHERE venue_id = $1 AND court_id IS NULL AND weekday = $2 AND start_minute <= $3 AND end_minute >= $4 AND active
	          ORDER BY created_at DESC LIMIT 1`
	return r.findOne(ctx, query, venueID, int(day), int(start), int(end))
}

func (r *TariffRepository) findOne(ctx context.Context, query string, args ...any) (*tariff.Tariff, error) {
	var row tariffRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tariff.ErrTariffNotFound
		}
		return nil, fmt.Errorf("fetching tariff: %w", err)
	}
	return toTariff(&row), nil
}

func toTariff(row *tariffRow) *tariff.Tariff {
	t := &tariff.Tariff{
		ID:            row.ID,
		VenueID:       row.VenueID,
		Weekday:       time.Weekday(row.Weekday),
		Start:         timeslot.Clock(row.StartMinute),
		End:           timeslot.Clock(row.EndMinute),
		PricePerBlock: row.PricePerBlock,
		Currency:      row.Currency,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.CourtID.Valid {
		courtID := row.CourtID.String
		t.CourtID = &courtID
	}
	return t
}

var _ tariff.Repository = (*TariffRepository)(nil)
