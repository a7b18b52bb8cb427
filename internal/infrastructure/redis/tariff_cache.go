package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canchago/go-court-reservation/internal/domain/tariff"
)

// TariffCache stores price resolutions in Redis with a TTL. There is no
// delete path: entries only ever expire.
type TariffCache struct {
	client *redis.Client
}

func NewTariffCache(client *redis.Client) *TariffCache {
	return &TariffCache{client: client}
}

func (c *TariffCache) Get(ctx context.Context, key string) (*tariff.Resolution, error) {
	raw, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, tariff.ErrCacheMiss
		}
		return nil, fmt.Errorf("reading tariff cache: %w", err)
	}
	var res tariff.Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decoding cached resolution: %w", err)
	}
	return &res, nil
}

func (c *TariffCache) Set(ctx context.Context, key string, res *tariff.Resolution, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding resolution: %w", err)
	}
	if err := c.client.Set(ctx, c.cacheKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing tariff cache: %w", err)
	}
	return nil
}

func (c *TariffCache) cacheKey(key string) string {
	return "tariff:resolve:" + key
}

var _ tariff.ResolutionCache = (*TariffCache)(nil)
