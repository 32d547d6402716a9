package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/reportcard-backend/internal/config"
)

// DraftStore keeps the raw values of marksheets that are still being
// filled in, one Redis hash per draft.
type DraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDraftStore creates a DraftStore whose drafts expire after ttl of
// inactivity.
func NewDraftStore(rdb *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{rdb: rdb, ttl: ttl}
}

// Set stores one value of a draft and returns every value of the draft.
func (s *DraftStore) Set(ctx context.Context, schemaID int, draftID, key, value string) (map[string]string, error) {
	k := config.CacheKey.SchemaDraftKey(schemaID, draftID)

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, k, key, value)
	pipe.Expire(ctx, k, s.ttl)
	all := pipe.HGetAll(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("set draft value: %w", err)
	}
	return all.Val(), nil
}

// Get returns every value of a draft. An unknown draft is empty.
func (s *DraftStore) Get(ctx context.Context, schemaID int, draftID string) (map[string]string, error) {
	values, err := s.rdb.HGetAll(ctx, config.CacheKey.SchemaDraftKey(schemaID, draftID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return values, nil
}

// Delete drops a draft.
func (s *DraftStore) Delete(ctx context.Context, schemaID int, draftID string) error {
	return s.rdb.Del(ctx, config.CacheKey.SchemaDraftKey(schemaID, draftID)).Err()
}
