package tariff

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by ResolutionCache.Get when the key is absent or
// its TTL has lapsed.
var ErrCacheMiss = errors.New("resolution not cached")

// ResolutionCache is a read-through cache over price resolutions. Entries
// are immutable once written and disappear only by TTL expiry; tariff edits
// do not invalidate them, so callers tolerate staleness up to the TTL.
type ResolutionCache interface {
	Get(ctx context.Context, key string) (*Resolution, error)
	Set(ctx context.Context, key string, res *Resolution, ttl time.Duration) error
}
