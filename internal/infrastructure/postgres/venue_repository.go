package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/canchago/go-court-reservation/internal/domain/venue"
)

type venueRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Address       string    `db:"address"`
	TimeZone      string    `db:"time_zone"`
	OpeningHours  string    `db:"opening_hours"`
	BufferMinutes int       `db:"buffer_minutes"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type courtRow struct {
	ID           string         `db:"id"`
	VenueID      string         `db:"venue_id"`
	Name         string         `db:"name"`
	Surface      string         `db:"surface"`
	Status       string         `db:"status"`
	Active       bool           `db:"active"`
	OpeningHours sql.NullString `db:"opening_hours"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// VenueRepository reads venue and court catalog records.
type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepository(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	var row venueRow
	query := `SELECT id, name, address, time_zone, opening_hours, buffer_minutes, active, created_at, updated_at
	          FROM venues WHERE id = $1 AND active`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrVenueNotFound
		}
		return nil, fmt.Errorf("fetching venue: %w", err)
	}

	schedule, err := venue.ParseWeeklySchedule(row.OpeningHours)
	if err != nil {
		return nil, fmt.Errorf("venue %s: %w", row.ID, err)
	}

	return &venue.Venue{
		ID:            row.ID,
		Name:          row.Name,
		Address:       row.Address,
		TimeZone:      row.TimeZone,
		OpeningHours:  schedule,
		BufferMinutes: row.BufferMinutes,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (r *VenueRepository) GetCourt(ctx context.Context, id string) (*venue.Court, error) {
	var row courtRow
	query := `SELECT id, venue_id, name, surface, status, active, opening_hours, created_at, updated_at
	          FROM courts WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, venue.ErrCourtNotFound
		}
		return nil, fmt.Errorf("fetching court: %w", err)
	}

	var override venue.WeeklySchedule
	if row.OpeningHours.Valid && row.OpeningHours.String != "" {
		var err error
		override, err = venue.ParseWeeklySchedule(row.OpeningHours.String)
		if err != nil {
			return nil, fmt.Errorf("court %s: %w", row.ID, err)
		}
	}

	return &venue.Court{
		ID:           row.ID,
		VenueID:      row.VenueID,
		Name:         row.Name,
		Surface:      row.Surface,
		Status:       venue.CourtStatus(row.Status),
		Active:       row.Active,
		OpeningHours: override,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

var _ venue.Repository = (*VenueRepository)(nil)
