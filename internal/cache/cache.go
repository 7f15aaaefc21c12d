package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ptnguyen/fundflow/internal"
)

// Cache is a read-through side channel over the relational store. Keys are
// registered into per-scope sets at write time so mutating operations can
// invalidate an exact key set instead of scanning by prefix.
type Cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	enabled bool
	logger  *slog.Logger
}

func New(cfg internal.CacheConfig, logger *slog.Logger) *Cache {
	if !cfg.Enabled {
		return &Cache{enabled: false, logger: logger}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Cache{
		rdb:     rdb,
		ttl:     cfg.TTL,
		enabled: true,
		logger:  logger,
	}
}

func (c *Cache) Enabled() bool {
	return c.enabled
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// GetJSON reports whether the key was present and decoded into dest.
// Cache errors degrade to a miss, the store stays authoritative.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", "key", key, "error", err)
		c.rdb.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores the value under key and registers the key into each given
// scope set so InvalidateScope can later delete it without scanning.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, scopes ...string) {
	if !c.enabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	for _, scope := range scopes {
		pipe.SAdd(ctx, scope, key)
		pipe.Expire(ctx, scope, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.enabled || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// InvalidateScope deletes every key registered under the given scope sets,
// then the sets themselves.
func (c *Cache) InvalidateScope(ctx context.Context, scopes ...string) {
	if !c.enabled {
		return
	}
	for _, scope := range scopes {
		members, err := c.rdb.SMembers(ctx, scope).Result()
		if err != nil {
			c.logger.Warn("cache scope lookup failed", "scope", scope, "error", err)
			continue
		}
		if len(members) > 0 {
			if err := c.rdb.Del(ctx, members...).Err(); err != nil {
				c.logger.Warn("cache scope invalidation failed", "scope", scope, "error", err)
			}
		}
		c.rdb.Del(ctx, scope)
	}
}

func (c *Cache) Close() error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Close()
}

const (
	ScopeCampaignLists = "scope:campaigns"
	ScopeDonationLists = "scope:donations"
	ScopeUserLists     = "scope:users"
)

func CampaignListKey(scope string, page, size int) string {
	return fmt.Sprintf("campaigns:%s:page_%d:size_%d", scope, page, size)
}

func CampaignDetailKey(id int64) string {
	return fmt.Sprintf("campaign:%d", id)
}

func DonationListKey(campaignID *int64, page, size int) string {
	if campaignID != nil {
		return fmt.Sprintf("donation:campaign_%d:page_%d:size_%d", *campaignID, page, size)
	}
	return fmt.Sprintf("donation:page_%d:size_%d", page, size)
}

func UserDetailKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
