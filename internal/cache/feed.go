package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// FeedCachePrefix is the key prefix for user feed caches
	FeedCachePrefix = "feed:user:"

	// FeedCacheCap is the maximum number of posts to cache per user
	FeedCacheCap = 500

	// FeedCacheTTL is the TTL for feed cache entries
	FeedCacheTTL = 7 * 24 * time.Hour
)

// PostScore represents a post with its timestamp score for caching
type PostScore struct {
	PostID    int64
	Timestamp int64 // Unix timestamp
}

// FeedCache holds each user's feed as a sorted set of post IDs scored by
// creation time. Using an interface enables testing with mocks.
type FeedCache interface {
	// AddPost adds a post to a user's feed cache.
	AddPost(ctx context.Context, userID, postID int64, timestamp int64) error

	// RemovePost removes a post from a user's feed cache.
	RemovePost(ctx context.Context, userID, postID int64) error

	// GetFeed returns up to limit post IDs from a user's feed, newest first.
	GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error)

	// WarmCache bulk-inserts posts into a user's feed cache.
	WarmCache(ctx context.Context, userID int64, posts []PostScore) error

	// Exists checks if a user has a feed cache entry. Returns false for a
	// new user or after TTL expiry; callers should warm the cache then.
	Exists(ctx context.Context, userID int64) (bool, error)
}

// RedisFeedCache implements FeedCache using Redis Sorted Sets.
type RedisFeedCache struct {
	client *redis.Client
}

// NewFeedCache creates a new FeedCache backed by Redis.
func NewFeedCache(client *redis.Client) FeedCache {
	return &RedisFeedCache{client: client}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("%s%d", FeedCachePrefix, userID)
}

// AddPost adds a post with its timestamp as score, trims the set to the cap
// and refreshes the TTL, all in one pipeline.
func (c *RedisFeedCache) AddPost(ctx context.Context, userID, postID int64, timestamp int64) error {
	key := feedKey(userID)

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(timestamp),
		Member: strconv.FormatInt(postID, 10),
	})
	// ZREMRANGEBYRANK keeps the FeedCacheCap highest scores (newest posts)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] AddPost FAILED: user=%d post=%d err=%v", userID, postID, err)
		return fmt.Errorf("add post to feed: %w", err)
	}

	return nil
}

func (c *RedisFeedCache) RemovePost(ctx context.Context, userID, postID int64) error {
	key := feedKey(userID)
	member := strconv.FormatInt(postID, 10)

	if err := c.client.ZRem(ctx, key, member).Err(); err != nil {
		log.Printf("[FeedCache] RemovePost FAILED: user=%d post=%d err=%v", userID, postID, err)
		return fmt.Errorf("remove post from feed: %w", err)
	}

	return nil
}

// GetFeed returns the newest post IDs via ZREVRANGE and refreshes the TTL on access.
func (c *RedisFeedCache) GetFeed(ctx context.Context, userID int64, limit int) ([]int64, error) {
	key := feedKey(userID)

	members, err := c.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[FeedCache] GetFeed FAILED: user=%d err=%v", userID, err)
		return nil, fmt.Errorf("get feed: %w", err)
	}

	c.client.Expire(ctx, key, FeedCacheTTL)

	postIDs := make([]int64, len(members))
	for i, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse post id: %w", err)
		}
		postIDs[i] = id
	}

	return postIDs, nil
}

// WarmCache bulk-inserts posts using a pipeline.
func (c *RedisFeedCache) WarmCache(ctx context.Context, userID int64, posts []PostScore) error {
	if len(posts) == 0 {
		return nil
	}

	key := feedKey(userID)

	members := make([]redis.Z, len(posts))
	for i, p := range posts {
		members[i] = redis.Z{
			Score:  float64(p.Timestamp),
			Member: strconv.FormatInt(p.PostID, 10),
		}
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, members...)
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-FeedCacheCap-1))
	pipe.Expire(ctx, key, FeedCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[FeedCache] WarmCache FAILED: user=%d posts=%d err=%v", userID, len(posts), err)
		return fmt.Errorf("warm cache: %w", err)
	}

	log.Printf("[FeedCache] WarmCache OK: user=%d posts=%d", userID, len(posts))
	return nil
}

func (c *RedisFeedCache) Exists(ctx context.Context, userID int64) (bool, error) {
	exists, err := c.client.Exists(ctx, feedKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check cache exists: %w", err)
	}
	return exists > 0, nil
}
