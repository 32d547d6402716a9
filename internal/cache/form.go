// Package cache keeps marksheet state in Redis: compiled schema forms,
// drafts of marksheets being filled in, and the channel on which new
// entries are announced.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/reportcard-backend/internal/config"
	"github.com/stemsi/reportcard-backend/internal/model"
)

// FormCache stores compiled schema forms.
type FormCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFormCache creates a FormCache whose entries expire after ttl.
func NewFormCache(rdb *redis.Client, ttl time.Duration) *FormCache {
	return &FormCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached form of a schema. A miss returns (nil, nil).
func (c *FormCache) Get(ctx context.Context, schemaID int) (*model.SchemaWithForm, error) {
	data, err := c.rdb.Get(ctx, config.CacheKey.SchemaFormKey(schemaID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get form: %w", err)
	}

	var sf model.SchemaWithForm
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("unmarshal form: %w", err)
	}
	return &sf, nil
}

// Set caches the form of a schema.
func (c *FormCache) Set(ctx context.Context, sf *model.SchemaWithForm) error {
	data, err := json.Marshal(sf)
	if err != nil {
		return fmt.Errorf("marshal form: %w", err)
	}
	return c.rdb.Set(ctx, config.CacheKey.SchemaFormKey(sf.Schema.ID), data, c.ttl).Err()
}
