package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-fulfillment/internal/domain/entities"
)

const DefaultCacheTTL = 10 * time.Minute

// CachedRepository is a read-through redis cache in front of another store.
// Redis failures fall back to the store.
type CachedRepository struct {
	next   QuizReader
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository wraps next. A zero ttl uses DefaultCacheTTL.
func NewCachedRepository(next QuizReader, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func chapterKey(chapterCode string) string {
	return fmt.Sprintf("quiz:chapter:%s", chapterCode)
}

func itemCacheKey(chapterCode string, id int) string {
	return fmt.Sprintf("quiz:item:%s:%d", chapterCode, id)
}

func (r *CachedRepository) ListByChapter(ctx context.Context, chapterCode string) ([]entities.QuizItem, error) {
	key := chapterKey(chapterCode)

	var items []entities.QuizItem
	if r.get(ctx, key, &items) {
		return items, nil
	}

	items, err := r.next.ListByChapter(ctx, chapterCode)
	if err != nil {
		return nil, err
	}
	// Empty chapters are not cached so content imported elsewhere shows up.
	if len(items) > 0 {
		r.set(ctx, key, items)
	}
	return items, nil
}

func (r *CachedRepository) GetByChapterAndID(ctx context.Context, chapterCode string, id int) (*entities.QuizItem, error) {
	key := itemCacheKey(chapterCode, id)

	var it entities.QuizItem
	if r.get(ctx, key, &it) {
		return &it, nil
	}

	item, err := r.next.GetByChapterAndID(ctx, chapterCode, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, key, item)
	return item, nil
}

// Invalidate drops the cached entries of a chapter.
func (r *CachedRepository) Invalidate(ctx context.Context, chapterCode string) error {
	keys := []string{chapterKey(chapterCode)}

	var cursor uint64
	for {
		matched, next, err := r.rdb.Scan(ctx, cursor, fmt.Sprintf("quiz:item:%s:*", chapterCode), 100).Result()
		if err != nil {
			return fmt.Errorf("scan cache keys: %w", err)
		}
		keys = append(keys, matched...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}
	return nil
}

func (r *CachedRepository) get(ctx context.Context, key string, dst any) bool {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CachedRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
