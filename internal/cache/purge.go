package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/reportcard-backend/internal/config"
)

const scanBatch = 500

// Purge deletes every cached form and draft. It returns the number of keys
// removed.
func Purge(ctx context.Context, rdb *redis.Client) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, config.CacheKey.MarksheetPattern(), scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("scan keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete keys: %w", err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

// Purger binds Purge to a client.
type Purger struct {
	rdb *redis.Client
}

// NewPurger creates a Purger.
func NewPurger(rdb *redis.Client) *Purger {
	return &Purger{rdb: rdb}
}

// Purge deletes every cached form and draft.
func (p *Purger) Purge(ctx context.Context) (int, error) {
	return Purge(ctx, p.rdb)
}
