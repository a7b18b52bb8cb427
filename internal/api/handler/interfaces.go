package handler

import (
	"context"

	"github.com/canchago/go-court-reservation/internal/application"
	"github.com/canchago/go-court-reservation/internal/domain/identity"
	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
)

// PricingServiceInterface resolves slot prices.
type PricingServiceInterface interface {
	ResolvePrice(ctx context.Context, in application.ResolvePriceInput) (*tariff.Resolution, error)
}

// AvailabilityServiceInterface answers availability questions.
type AvailabilityServiceInterface interface {
	HasConflict(ctx context.Context, courtID string, candidate timeslot.Slot, bufferMinutes int) (bool, error)
	DaySchedule(ctx context.Context, venueID, courtID, date string) ([]application.SlotStatus, error)
}

// ReservationServiceInterface drives the reservation lifecycle.
type ReservationServiceInterface interface {
	CreateHold(ctx context.Context, actor identity.Actor, in application.CreateHoldInput) (*application.ReservationResponse, bool, error)
	Confirm(ctx context.Context, actor identity.Actor, reservationID, idemKey string) (*application.ReservationResponse, bool, error)
	Cancel(ctx context.Context, actor identity.Actor, reservationID, reason, idemKey string) (*application.ReservationResponse, bool, error)
	Reschedule(ctx context.Context, actor identity.Actor, reservationID string, in application.RescheduleInput) (*application.ReservationResponse, bool, error)
	GetReservation(ctx context.Context, actor identity.Actor, reservationID string) (*application.ReservationResponse, error)
	ListUserReservations(ctx context.Context, actor identity.Actor, userID string, limit, offset int) ([]*application.ReservationResponse, error)
}
