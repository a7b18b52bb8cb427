package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/canchago/go-court-reservation/internal/domain/idempotency"
	"github.com/canchago/go-court-reservation/internal/domain/reservation"
	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/transaction"
	"github.com/canchago/go-court-reservation/internal/domain/venue"
)

// === Mock implementations ===

// MockVenueRepository implements venue.Repository
type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) GetVenue(ctx context.Context, id string) (*venue.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Venue), args.Error(1)
}

func (m *MockVenueRepository) GetCourt(ctx context.Context, id string) (*venue.Court, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venue.Court), args.Error(1)
}

// MockTariffRepository implements tariff.Repository
type MockTariffRepository struct {
	mock.Mock
}

func (m *MockTariffRepository) FindApplicableForCourt(ctx context.Context, courtID string, day time.Weekday, start, end timeslot.Clock) (*tariff.Tariff, error) {
	args := m.Called(ctx, courtID, day, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) FindApplicableForVenue(ctx context.Context, venueID string, day time.Weekday, start, end timeslot.Clock) (*tariff.Tariff, error) {
	args := m.Called(ctx, venueID, day, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Tariff), args.Error(1)
}

// === In-memory fakes for lifecycle flow tests ===

type memTx struct{}

func (memTx) Commit() error   { return nil }
func (memTx) Rollback() error { return nil }

type memTxManager struct{}

func (memTxManager) Begin(ctx context.Context) (transaction.Tx, error) { return memTx{}, nil }

// memReservationRepo is an in-memory reservation.Repository. It assigns
// sequential IDs on create and enforces hold key uniqueness like the
// database index does.
type memReservationRepo struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*reservation.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{rows: make(map[string]*reservation.Reservation)}
}

func (r *memReservationRepo) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.HoldKey != "" {
		for _, existing := range r.rows {
			if existing.HoldKey == res.HoldKey {
				return reservation.ErrHoldKeyExists
			}
		}
	}
	r.seq++
	res.ID = fmt.Sprintf("res-%d", r.seq)
	cp := *res
	r.rows[res.ID] = &cp
	return nil
}

func (r *memReservationRepo) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.rows[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (r *memReservationRepo) GetByHoldKey(ctx context.Context, key string) (*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.rows {
		if res.HoldKey == key {
			cp := *res
			return &cp, nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (r *memReservationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.rows {
		if res.UserID == userID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReservationRepo) ListBlocking(ctx context.Context, courtID, date string, now time.Time) ([]*reservation.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reservation.Reservation
	for _, res := range r.rows {
		if res.CourtID == courtID && res.Slot.Date == date && res.BlocksSlot(now) {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReservationRepo) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[res.ID]; !ok {
		return reservation.ErrReservationNotFound
	}
	cp := *res
	r.rows[res.ID] = &cp
	return nil
}

func (r *memReservationRepo) ExpireOverdueHolds(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.rows {
		if res.Expire(now) {
			n++
		}
	}
	return n, nil
}

// memIdemStore is an in-memory idempotency.Store.
type memIdemStore struct {
	mu   sync.Mutex
	rows map[string]*idempotency.Record
}

func newMemIdemStore() *memIdemStore {
	return &memIdemStore{rows: make(map[string]*idempotency.Record)}
}

func idemStoreKey(op idempotency.Operation, key, userID string) string {
	return string(op) + "|" + key + "|" + userID
}

func (s *memIdemStore) Get(ctx context.Context, op idempotency.Operation, key, userID string) (*idempotency.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[idemStoreKey(op, key, userID)]
	if !ok {
		return nil, idempotency.ErrRecordNotFound
	}
	return rec, nil
}

func (s *memIdemStore) PutIfAbsent(ctx context.Context, rec *idempotency.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := idemStoreKey(rec.Operation, rec.Key, rec.UserID)
	if _, ok := s.rows[k]; ok {
		return false, nil
	}
	s.rows[k] = rec
	return true, nil
}

// memTariffCache is an in-memory tariff.ResolutionCache.
type memTariffCache struct {
	mu   sync.Mutex
	rows map[string]*tariff.Resolution
	hits int
	sets int
}

func newMemTariffCache() *memTariffCache {
	return &memTariffCache{rows: make(map[string]*tariff.Resolution)}
}

func (c *memTariffCache) Get(ctx context.Context, key string) (*tariff.Resolution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.rows[key]
	if !ok {
		return nil, tariff.ErrCacheMiss
	}
	c.hits++
	return res, nil
}

func (c *memTariffCache) Set(ctx context.Context, key string, res *tariff.Resolution, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[key] = res
	c.sets++
	return nil
}
