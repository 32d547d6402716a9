package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/reportcard-backend/internal/config"
)

// EntryEvents announces new marksheet entries per schema over Redis Pub/Sub.
type EntryEvents struct {
	rdb *redis.Client
}

// NewEntryEvents creates an EntryEvents.
func NewEntryEvents(rdb *redis.Client) *EntryEvents {
	return &EntryEvents{rdb: rdb}
}

// Publish sends v as JSON on the schema's entries channel.
func (e *EntryEvents) Publish(ctx context.Context, schemaID int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return e.rdb.Publish(ctx, config.CacheKey.SchemaEntriesChannel(schemaID), payload).Err()
}

// Subscribe listens on the schema's entries channel. The caller closes the
// returned subscription.
func (e *EntryEvents) Subscribe(ctx context.Context, schemaID int) *redis.PubSub {
	return e.rdb.Subscribe(ctx, config.CacheKey.SchemaEntriesChannel(schemaID))
}
