package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canchago/go-court-reservation/internal/domain/tariff"
)

func TestTariffCache(t *testing.T) {
	client := testClient(t)
	cache := NewTariffCache(client)
	ctx := context.Background()
	key := "v-test:c-test:2026-09-12:10:00:11:30"

	t.Run("miss returns ErrCacheMiss", func(t *testing.T) {
		_, err := cache.Get(ctx, "v-test:missing")
		assert.ErrorIs(t, err, tariff.ErrCacheMiss)
	})

	t.Run("set then get round-trips the resolution", func(t *testing.T) {
		res := &tariff.Resolution{
			Origin:        tariff.ScopeCourt,
			TariffID:      "t-court",
			Currency:      "COP",
			PricePerBlock: 100000,
		}
		err := cache.Set(ctx, key, res, 30*time.Second)
		require.NoError(t, err)

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, res, got)
	})

	t.Run("entry expires after its TTL", func(t *testing.T) {
		res := &tariff.Resolution{
			Origin:        tariff.ScopeVenue,
			TariffID:      "t-venue",
			Currency:      "COP",
			PricePerBlock: 80000,
		}
		err := cache.Set(ctx, key+":ttl", res, 100*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(200 * time.Millisecond)

		_, err = cache.Get(ctx, key+":ttl")
		assert.ErrorIs(t, err, tariff.ErrCacheMiss)
	})
}
