package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dmitrijs2005/bhojanbox/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	itemsKey      = "menu:items"
	categoriesKey = "menu:categories"
)

// cachedItem keeps the object key that the public JSON form hides.
type cachedItem struct {
	models.MenuItem
	ImageKey string `json:"imageKey,omitempty"`
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, baseTTL: ttl}
}

// ttl spreads expiry over [base, base*1.2) so entries written together do not
// expire together.
func (r *RedisCache) ttl() time.Duration {
	spread := int64(r.baseTTL / 5)
	if spread <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int64N(spread))
}

func (r *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}

func (r *RedisCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Items(ctx context.Context) ([]models.MenuItem, error) {
	var cached []cachedItem
	if err := r.get(ctx, itemsKey, &cached); err != nil {
		return nil, err
	}
	items := make([]models.MenuItem, len(cached))
	for i, c := range cached {
		items[i] = c.MenuItem
		items[i].ImageKey = c.ImageKey
	}
	return items, nil
}

func (r *RedisCache) SetItems(ctx context.Context, items []models.MenuItem) error {
	cached := make([]cachedItem, len(items))
	for i, it := range items {
		cached[i] = cachedItem{MenuItem: it, ImageKey: it.ImageKey}
	}
	return r.set(ctx, itemsKey, cached)
}

func (r *RedisCache) Categories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.get(ctx, categoriesKey, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *RedisCache) SetCategories(ctx context.Context, cats []models.Category) error {
	return r.set(ctx, categoriesKey, cats)
}

func (r *RedisCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, itemsKey, categoriesKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
