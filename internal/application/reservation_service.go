package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/config"
	"github.com/canchago/go-court-reservation/internal/domain/idempotency"
	"github.com/canchago/go-court-reservation/internal/domain/identity"
	"github.com/canchago/go-court-reservation/internal/domain/reservation"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/transaction"
	"github.com/canchago/go-court-reservation/internal/domain/venue"
	"github.com/canchago/go-court-reservation/internal/infrastructure/redis"
	"github.com/canchago/go-court-reservation/internal/pkg/audit"
	"github.com/canchago/go-court-reservation/internal/pkg/clock"
	"github.com/canchago/go-court-reservation/internal/pkg/logger"
	"github.com/canchago/go-court-reservation/internal/pkg/metrics"
)

// ErrSlotContended is returned when the per-court lock could not be taken
// after retries. The caller should retry the request.
var ErrSlotContended = errors.New("court is busy processing another reservation, retry shortly")

const (
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// ReservationService drives the reservation lifecycle: hold, confirm,
// cancel, reschedule, and hold expiry. All slot writes on a court are
// serialized through a per-court-per-date lock so the conflict check and the
// insert are atomic with respect to competing requests.
type ReservationService struct {
	venues       venue.Repository
	reservations reservation.Repository
	tariffs      *TariffService
	availability *AvailabilityService
	ledger       *idempotency.Ledger
	txManager    transaction.Manager
	locks        *redis.LockManager // nil skips distributed locking
	audit        audit.Sink
	clock        clock.Clock
	booking      config.BookingConfig
}

func NewReservationService(
	venues venue.Repository,
	reservations reservation.Repository,
	tariffs *TariffService,
	availability *AvailabilityService,
	ledger *idempotency.Ledger,
	txManager transaction.Manager,
	locks *redis.LockManager,
	auditSink audit.Sink,
	clk clock.Clock,
	booking config.BookingConfig,
) *ReservationService {
	if auditSink == nil {
		auditSink = audit.NopSink{}
	}
	return &ReservationService{
		venues:       venues,
		reservations: reservations,
		tariffs:      tariffs,
		availability: availability,
		ledger:       ledger,
		txManager:    txManager,
		locks:        locks,
		audit:        auditSink,
		clock:        clk,
		booking:      booking,
	}
}

type CreateHoldInput struct {
	VenueID        string `json:"venue_id" validate:"required"`
	CourtID        string `json:"court_id" validate:"required"`
	Date           string `json:"date" validate:"required"`
	Start          string `json:"start_time" validate:"required"`
	End            string `json:"end_time" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

type RescheduleInput struct {
	Date           string `json:"date" validate:"required"`
	Start          string `json:"start_time" validate:"required"`
	End            string `json:"end_time" validate:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// PriceDiff summarizes the price change of a reschedule.
type PriceDiff struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Type     string `json:"type"` // cargo_adicional, reembolso_parcial, sin_cambio
}

// ReservationResponse is the wire shape for a reservation in every
// lifecycle endpoint. It is also what the idempotency ledger replays.
type ReservationResponse struct {
	ID              string              `json:"id"`
	VenueID         string              `json:"venue_id"`
	CourtID         string              `json:"court_id"`
	UserID          string              `json:"user_id"`
	Date            string              `json:"date"`
	Start           string              `json:"start_time"`
	End             string              `json:"end_time"`
	Status          string              `json:"status"`
	Price           reservation.Price   `json:"price"`
	TotalAmount     int64               `json:"total_amount"`
	HoldExpiresAt   *time.Time          `json:"hold_expires_at,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	Refund          *reservation.Refund `json:"refund,omitempty"`
	PriceDifference *PriceDiff          `json:"price_difference,omitempty"`
	RescheduledFrom *string             `json:"rescheduled_from,omitempty"`
	RescheduledTo   *string             `json:"rescheduled_to,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// CreateHold places a hold on a slot. The idempotency key is mandatory;
// retries with the same key replay the original result without re-checking
// availability. The second return value is true on replay.
func (s *ReservationService) CreateHold(ctx context.Context, actor identity.Actor, in CreateHoldInput) (*ReservationResponse, bool, error) {
	slot, err := timeslot.New(in.Date, in.Start, in.End)
	if err != nil {
		return nil, false, err
	}

	rec, replayed, err := s.ledger.GetOrCreate(ctx, idempotency.OpHold, in.IdempotencyKey, actor.UserID, func(ctx context.Context) (string, json.RawMessage, error) {
		resp, err := s.placeHold(ctx, actor, in, slot)
		if err != nil {
			s.recordAudit(ctx, string(idempotency.OpHold), actor, "", "rejected", err.Error())
			return "", nil, err
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return "", nil, err
		}
		return resp.ID, raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeResponse(rec.Response, replayed)
}

func (s *ReservationService) placeHold(ctx context.Context, actor identity.Actor, in CreateHoldInput, slot timeslot.Slot) (*ReservationResponse, error) {
	v, c, err := s.loadCourt(ctx, in.VenueID, in.CourtID)
	if err != nil {
		return nil, err
	}
	if !c.Reservable() {
		return nil, venue.ErrCourtNotReservable
	}

	loc, err := v.Location()
	if err != nil {
		return nil, err
	}
	day, err := slot.Weekday(loc)
	if err != nil {
		return nil, err
	}
	if !c.Schedule(v).Covers(day, slot.Start, slot.End) {
		return nil, venue.ErrOutsideOpeningHours
	}
	now := s.clock.Now()
	startAt, _, err := slot.In(loc)
	if err != nil {
		return nil, err
	}
	if !startAt.After(now) {
		return nil, reservation.ErrSlotInPast
	}

	unlock, err := s.lockCourt(ctx, in.CourtID, in.Date, "hold")
	if err != nil {
		return nil, err
	}
	defer unlock()

	conflict, err := s.availability.HasConflict(ctx, in.CourtID, slot, v.BufferMinutes)
	if err != nil {
		return nil, err
	}
	if conflict {
		s.countHold("conflict")
		return nil, reservation.ErrOverlappingReservation
	}

	resolved, err := s.tariffs.ResolvePrice(ctx, ResolvePriceInput{
		VenueID: in.VenueID,
		CourtID: in.CourtID,
		Date:    in.Date,
		Start:   in.Start,
		End:     in.End,
	})
	if err != nil {
		return nil, err
	}
	price := reservation.Price{
		Origin:         string(resolved.Origin),
		TariffID:       resolved.TariffID,
		Currency:       resolved.Currency,
		AmountPerBlock: resolved.PricePerBlock,
	}

	r := reservation.NewHold(in.VenueID, in.CourtID, actor.UserID, slot, price, in.IdempotencyKey, now, s.booking.HoldTTL)
	if err := s.withinTx(ctx, func(tx transaction.Tx) error {
		return s.reservations.Create(ctx, tx, r)
	}); err != nil {
		if errors.Is(err, reservation.ErrHoldKeyExists) {
			// A concurrent request with the same hold key got there first;
			// its reservation is the answer.
			existing, lookupErr := s.reservations.GetByHoldKey(ctx, in.IdempotencyKey)
			if lookupErr != nil {
				return nil, err
			}
			return s.toResponse(existing), nil
		}
		return nil, err
	}

	s.countHold("created")
	s.recordAudit(ctx, string(idempotency.OpHold), actor, r.ID, "created", "")
	logger.Info("hold created",
		zap.String("reservation_id", r.ID),
		zap.String("court_id", r.CourtID),
		zap.String("date", r.Slot.Date),
	)
	return s.toResponse(r), nil
}

// Confirm moves a hold to confirmed. With an idempotency key the result is
// replayable; without one the transition runs directly and relies on the
// state machine for safety.
func (s *ReservationService) Confirm(ctx context.Context, actor identity.Actor, reservationID, idemKey string) (*ReservationResponse, bool, error) {
	if idemKey == "" {
		resp, err := s.confirm(ctx, actor, reservationID, "")
		return resp, false, err
	}
	rec, replayed, err := s.ledger.GetOrCreate(ctx, idempotency.OpConfirm, idemKey, actor.UserID, func(ctx context.Context) (string, json.RawMessage, error) {
		resp, err := s.confirm(ctx, actor, reservationID, idemKey)
		if err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return "", nil, err
		}
		return resp.ID, raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeResponse(rec.Response, replayed)
}

func (s *ReservationService) confirm(ctx context.Context, actor identity.Actor, reservationID, idemKey string) (*ReservationResponse, error) {
	r, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		return nil, reservation.ErrNotOwner
	}

	now := s.clock.Now()
	if err := r.Confirm(idemKey, now); err != nil {
		s.recordAudit(ctx, string(idempotency.OpConfirm), actor, r.ID, "rejected", err.Error())
		return nil, err
	}
	if err := s.withinTx(ctx, func(tx transaction.Tx) error {
		return s.reservations.Update(ctx, tx, r)
	}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, string(idempotency.OpConfirm), actor, r.ID, "confirmed", "")
	logger.Info("reservation confirmed", zap.String("reservation_id", r.ID))
	return s.toResponse(r), nil
}

// Cancel moves a hold or confirmed reservation to cancelled. Cancelling an
// already-cancelled reservation succeeds without changing anything. For a
// confirmed reservation the response carries the refund the policy owes.
func (s *ReservationService) Cancel(ctx context.Context, actor identity.Actor, reservationID, reason, idemKey string) (*ReservationResponse, bool, error) {
	if idemKey == "" {
		resp, err := s.cancel(ctx, actor, reservationID, reason, "")
		return resp, false, err
	}
	rec, replayed, err := s.ledger.GetOrCreate(ctx, idempotency.OpCancel, idemKey, actor.UserID, func(ctx context.Context) (string, json.RawMessage, error) {
		resp, err := s.cancel(ctx, actor, reservationID, reason, idemKey)
		if err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return "", nil, err
		}
		return resp.ID, raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeResponse(rec.Response, replayed)
}

func (s *ReservationService) cancel(ctx context.Context, actor identity.Actor, reservationID, reason, idemKey string) (*ReservationResponse, error) {
	r, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		return nil, reservation.ErrNotOwner
	}

	v, err := s.venues.GetVenue(ctx, r.VenueID)
	if err != nil {
		return nil, err
	}
	loc, err := v.Location()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	startAt, _, err := r.Slot.In(loc)
	if err != nil {
		return nil, err
	}
	if r.Status.Active() && !startAt.After(now) {
		err := &reservation.InvalidStateError{From: r.Status, Action: "cancel", Detail: "reservation already started"}
		s.recordAudit(ctx, string(idempotency.OpCancel), actor, r.ID, "rejected", err.Error())
		return nil, err
	}

	wasConfirmed := r.Status == reservation.StatusConfirmed
	if err := r.MarkCancelled(reason, idemKey, now); err != nil {
		if errors.Is(err, reservation.ErrAlreadyCancelled) {
			s.recordAudit(ctx, string(idempotency.OpCancel), actor, r.ID, "noop", "already cancelled")
			return s.toResponse(r), nil
		}
		s.recordAudit(ctx, string(idempotency.OpCancel), actor, r.ID, "rejected", err.Error())
		return nil, err
	}
	if err := s.withinTx(ctx, func(tx transaction.Tx) error {
		return s.reservations.Update(ctx, tx, r)
	}); err != nil {
		return nil, err
	}

	resp := s.toResponse(r)
	if wasConfirmed {
		resp.Refund = s.computeRefund(r, startAt, now)
	}
	s.recordAudit(ctx, string(idempotency.OpCancel), actor, r.ID, "cancelled", reason)
	logger.Info("reservation cancelled",
		zap.String("reservation_id", r.ID),
		zap.String("reason", reason),
	)
	return resp, nil
}

// computeRefund applies the cancellation policy: full refund at or beyond the
// configured threshold before start, a percentage below it, nothing when the
// percentage rounds to zero.
func (s *ReservationService) computeRefund(r *reservation.Reservation, startAt, now time.Time) *reservation.Refund {
	total := totalAmount(r.Price.AmountPerBlock, r.Slot.Minutes())
	hoursUntil := startAt.Sub(now).Hours()

	if hoursUntil >= float64(s.booking.CancelFullRefundHours) {
		return &reservation.Refund{Amount: total, Currency: r.Price.Currency, Type: "total"}
	}
	amount := total * int64(s.booking.CancelPartialPercent) / 100
	if amount <= 0 {
		return &reservation.Refund{Amount: 0, Currency: r.Price.Currency, Type: "sin_reembolso"}
	}
	return &reservation.Refund{Amount: amount, Currency: r.Price.Currency, Type: "parcial"}
}

// Reschedule moves a confirmed reservation to a new slot on the same court.
// The original is closed as reprogrammed and a new confirmed reservation is
// created, re-priced at the tariff applicable to the new slot.
func (s *ReservationService) Reschedule(ctx context.Context, actor identity.Actor, reservationID string, in RescheduleInput) (*ReservationResponse, bool, error) {
	slot, err := timeslot.New(in.Date, in.Start, in.End)
	if err != nil {
		return nil, false, err
	}

	if in.IdempotencyKey == "" {
		resp, err := s.reschedule(ctx, actor, reservationID, slot)
		return resp, false, err
	}
	rec, replayed, err := s.ledger.GetOrCreate(ctx, idempotency.OpReschedule, in.IdempotencyKey, actor.UserID, func(ctx context.Context) (string, json.RawMessage, error) {
		resp, err := s.reschedule(ctx, actor, reservationID, slot)
		if err != nil {
			return "", nil, err
		}
		raw, err := json.Marshal(resp)
		if err != nil {
			return "", nil, err
		}
		return resp.ID, raw, nil
	})
	if err != nil {
		return nil, false, err
	}
	return decodeResponse(rec.Response, replayed)
}

func (s *ReservationService) reschedule(ctx context.Context, actor identity.Actor, reservationID string, slot timeslot.Slot) (*ReservationResponse, error) {
	orig, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(orig.UserID) {
		return nil, reservation.ErrNotOwner
	}
	if orig.Status != reservation.StatusConfirmed {
		err := &reservation.InvalidStateError{From: orig.Status, Action: "reschedule"}
		s.recordAudit(ctx, string(idempotency.OpReschedule), actor, orig.ID, "rejected", err.Error())
		return nil, err
	}

	v, c, err := s.loadCourt(ctx, orig.VenueID, orig.CourtID)
	if err != nil {
		return nil, err
	}
	if !c.Reservable() {
		return nil, venue.ErrCourtNotReservable
	}
	loc, err := v.Location()
	if err != nil {
		return nil, err
	}
	day, err := slot.Weekday(loc)
	if err != nil {
		return nil, err
	}
	if !c.Schedule(v).Covers(day, slot.Start, slot.End) {
		return nil, venue.ErrOutsideOpeningHours
	}
	now := s.clock.Now()
	startAt, _, err := slot.In(loc)
	if err != nil {
		return nil, err
	}
	if !startAt.After(now) {
		return nil, reservation.ErrSlotInPast
	}

	unlock, err := s.lockCourt(ctx, orig.CourtID, slot.Date, "reschedule")
	if err != nil {
		return nil, err
	}
	defer unlock()

	conflict, err := s.availability.HasConflictExcluding(ctx, orig.CourtID, slot, v.BufferMinutes, orig.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, reservation.ErrOverlappingReservation
	}

	resolved, err := s.tariffs.ResolvePrice(ctx, ResolvePriceInput{
		VenueID: orig.VenueID,
		CourtID: orig.CourtID,
		Date:    slot.Date,
		Start:   slot.Start.String(),
		End:     slot.End.String(),
	})
	if err != nil {
		return nil, err
	}
	price := reservation.Price{
		Origin:         string(resolved.Origin),
		TariffID:       resolved.TariffID,
		Currency:       resolved.Currency,
		AmountPerBlock: resolved.PricePerBlock,
	}

	replacement := reservation.NewRescheduled(orig, slot, price, now)
	if err := s.withinTx(ctx, func(tx transaction.Tx) error {
		if err := s.reservations.Create(ctx, tx, replacement); err != nil {
			return err
		}
		if err := orig.MarkReprogrammed(replacement.ID, now); err != nil {
			return err
		}
		return s.reservations.Update(ctx, tx, orig)
	}); err != nil {
		return nil, err
	}

	resp := s.toResponse(replacement)
	resp.PriceDifference = priceDifference(orig, replacement)
	s.recordAudit(ctx, string(idempotency.OpReschedule), actor, replacement.ID, "created", fmt.Sprintf("replaces %s", orig.ID))
	logger.Info("reservation rescheduled",
		zap.String("from", orig.ID),
		zap.String("to", replacement.ID),
	)
	return resp, nil
}

func priceDifference(orig, replacement *reservation.Reservation) *PriceDiff {
	oldTotal := totalAmount(orig.Price.AmountPerBlock, orig.Slot.Minutes())
	newTotal := totalAmount(replacement.Price.AmountPerBlock, replacement.Slot.Minutes())
	diff := newTotal - oldTotal
	switch {
	case diff > 0:
		return &PriceDiff{Amount: diff, Currency: replacement.Price.Currency, Type: "cargo_adicional"}
	case diff < 0:
		return &PriceDiff{Amount: -diff, Currency: replacement.Price.Currency, Type: "reembolso_parcial"}
	default:
		return &PriceDiff{Amount: 0, Currency: replacement.Price.Currency, Type: "sin_cambio"}
	}
}

// GetReservation returns a reservation visible to the actor.
func (s *ReservationService) GetReservation(ctx context.Context, actor identity.Actor, reservationID string) (*ReservationResponse, error) {
	r, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		return nil, reservation.ErrNotOwner
	}
	return s.toResponse(r), nil
}

// ListUserReservations returns a user's reservations, newest first. Clients
// may only list their own.
func (s *ReservationService) ListUserReservations(ctx context.Context, actor identity.Actor, userID string, limit, offset int) ([]*ReservationResponse, error) {
	if !actor.CanManage(userID) {
		return nil, reservation.ErrNotOwner
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rs, err := s.reservations.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, s.toResponse(r))
	}
	return out, nil
}

// ExpireOverdueHolds sweeps holds past their window into expired. Called by
// the background sweeper.
func (s *ReservationService) ExpireOverdueHolds(ctx context.Context) (int, error) {
	n, err := s.reservations.ExpireOverdueHolds(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if m := metrics.Get(); m != nil {
			m.ExpiredHoldsTotal.Add(float64(n))
		}
		logger.Info("expired overdue holds", zap.Int("count", n))
	}
	return n, nil
}

func (s *ReservationService) loadCourt(ctx context.Context, venueID, courtID string) (*venue.Venue, *venue.Court, error) {
	v, err := s.venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.venues.GetCourt(ctx, courtID)
	if err != nil {
		return nil, nil, err
	}
	if !c.BelongsTo(v) {
		return nil, nil, venue.ErrCourtNotInVenue
	}
	return v, c, nil
}

// lockCourt serializes slot writes on one court and date. The returned
// function releases the lock and is safe to defer.
func (s *ReservationService) lockCourt(ctx context.Context, courtID, date, operation string) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	start := time.Now()
	lock, err := s.locks.AcquireWithRetry(ctx, redis.LockKey(courtID, date), s.booking.LockTTL, lockMaxRetries, lockRetryDelay)
	if err != nil {
		s.observeLock(operation, "contended", start)
		if errors.Is(err, redis.ErrLockNotAcquired) {
			return nil, ErrSlotContended
		}
		return nil, err
	}
	return func() {
		if err := lock.Release(ctx); err != nil {
			logger.Warn("court lock release failed", zap.Error(err))
		}
		s.observeLock(operation, "released", start)
	}, nil
}

func (s *ReservationService) withinTx(ctx context.Context, fn func(tx transaction.Tx) error) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

func (s *ReservationService) toResponse(r *reservation.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:              r.ID,
		VenueID:         r.VenueID,
		CourtID:         r.CourtID,
		UserID:          r.UserID,
		Date:            r.Slot.Date,
		Start:           r.Slot.Start.String(),
		End:             r.Slot.End.String(),
		Status:          string(r.Status),
		Price:           r.Price,
		TotalAmount:     totalAmount(r.Price.AmountPerBlock, r.Slot.Minutes()),
		ConfirmedAt:     r.ConfirmedAt,
		RescheduledFrom: r.RescheduledFrom,
		RescheduledTo:   r.RescheduledTo,
		CreatedAt:       r.CreatedAt,
	}
	if r.Hold != nil {
		t := r.Hold.ExpiresAt
		resp.HoldExpiresAt = &t
	}
	if r.Cancel != nil {
		t := r.Cancel.CancelledAt
		resp.CancelReason = r.Cancel.Reason
		resp.CancelledAt = &t
	}
	return resp
}

// totalAmount prices a slot from its per-hour block rate, pro-rated by the
// minute so a 90 minute slot costs 1.5 blocks.
func totalAmount(perBlock int64, minutes int) int64 {
	return perBlock * int64(minutes) / 60
}

func decodeResponse(raw json.RawMessage, replayed bool) (*ReservationResponse, bool, error) {
	var resp ReservationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode stored response: %w", err)
	}
	return &resp, replayed, nil
}

func (s *ReservationService) countHold(outcome string) {
	if m := metrics.Get(); m != nil {
		m.HoldsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *ReservationService) observeLock(operation, status string, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.CourtLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
	}
}

func (s *ReservationService) recordAudit(ctx context.Context, action string, actor identity.Actor, reservationID, outcome, detail string) {
	s.audit.Record(ctx, audit.Event{
		Action:        action,
		ActorID:       actor.UserID,
		Role:          actor.Role,
		ReservationID: reservationID,
		Outcome:       outcome,
		Detail:        detail,
		At:            s.clock.Now(),
	})
}
