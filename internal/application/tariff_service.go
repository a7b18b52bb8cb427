package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/domain/tariff"
	"github.com/canchago/go-court-reservation/internal/domain/timeslot"
	"github.com/canchago/go-court-reservation/internal/domain/venue"
	"github.com/canchago/go-court-reservation/internal/pkg/logger"
	"github.com/canchago/go-court-reservation/internal/pkg/metrics"
)

// TariffService resolves the applicable price for a slot, preferring a
// court-scoped tariff over a venue-scoped one, with a bounded read-through
// cache in front of the storage query.
type TariffService struct {
	venues   venue.Repository
	tariffs  tariff.Repository
	cache    tariff.ResolutionCache // nil disables caching
	cacheTTL time.Duration
}

func NewTariffService(venues venue.Repository, tariffs tariff.Repository, cache tariff.ResolutionCache, cacheTTL time.Duration) *TariffService {
	return &TariffService{venues: venues, tariffs: tariffs, cache: cache, cacheTTL: cacheTTL}
}

type ResolvePriceInput struct {
	VenueID string
	CourtID string // optional; empty resolves venue-wide only
	Date    string // YYYY-MM-DD
	Start   string // HH:MM
	End     string // HH:MM
}

// ResolvePrice normalizes the request into the venue's zone and finds the
// tariff covering it. Cache hits skip both the normalization and the
// storage query.
func (s *TariffService) ResolvePrice(ctx context.Context, in ResolvePriceInput) (*tariff.Resolution, error) {
	slot, err := timeslot.New(in.Date, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	cacheKey := s.buildCacheKey(in)
	if s.cache != nil {
		if res, err := s.cache.Get(ctx, cacheKey); err == nil {
			s.countCache("hit")
			return res, nil
		} else if !errors.Is(err, tariff.ErrCacheMiss) {
			s.countCache("error")
			logger.Warn("tariff cache read failed", zap.Error(err))
		} else {
			s.countCache("miss")
		}
	}

	v, err := s.venues.GetVenue(ctx, in.VenueID)
	if err != nil {
		return nil, err
	}
	if in.CourtID != "" {
		c, err := s.venues.GetCourt(ctx, in.CourtID)
		if err != nil {
			return nil, err
		}
		if !c.BelongsTo(v) {
			return nil, venue.ErrCourtNotInVenue
		}
	}

	loc, err := v.Location()
	if err != nil {
		return nil, err
	}
	day, err := slot.Weekday(loc)
	if err != nil {
		return nil, err
	}

	res, err := s.resolve(ctx, v.ID, in.CourtID, day, slot)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, res, s.cacheTTL); err != nil {
			logger.Warn("tariff cache write failed", zap.Error(err))
		}
	}
	return res, nil
}

func (s *TariffService) resolve(ctx context.Context, venueID, courtID string, day time.Weekday, slot timeslot.Slot) (*tariff.Resolution, error) {
	if courtID != "" {
		t, err := s.tariffs.FindApplicableForCourt(ctx, courtID, day, slot.Start, slot.End)
		if err == nil {
			return toResolution(t), nil
		}
		if !errors.Is(err, tariff.ErrTariffNotFound) {
			return nil, err
		}
	}

	t, err := s.tariffs.FindApplicableForVenue(ctx, venueID, day, slot.Start, slot.End)
	if err == nil {
		return toResolution(t), nil
	}
	if !errors.Is(err, tariff.ErrTariffNotFound) {
		return nil, err
	}
	return nil, &tariff.NoTariffError{Weekday: day, Start: slot.Start, End: slot.End}
}

func toResolution(t *tariff.Tariff) *tariff.Resolution {
	return &tariff.Resolution{
		Origin:        t.Scope(),
		TariffID:      t.ID,
		Currency:      t.Currency,
		PricePerBlock: t.PricePerBlock,
	}
}

func (s *TariffService) buildCacheKey(in ResolvePriceInput) string {
	court := in.CourtID
	if court == "" {
		court = "general"
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", in.VenueID, court, in.Date, in.Start, in.End)
}

func (s *TariffService) countCache(result string) {
	if m := metrics.Get(); m != nil {
		m.TariffCacheLookups.WithLabelValues(result).Inc()
	}
}
