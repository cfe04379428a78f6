package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key formats
const (
	reportKeyFmt    = "report:%s:%s"
	photoHashKeyFmt = "photo:hash:%s"
)

var client *redis.Client

// Init initializes the Redis connection
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// paramsHash collapses arbitrary report parameters into a stable cache key part
func paramsHash(params string) string {
	h := sha256.Sum256([]byte(params))
	return hex.EncodeToString(h[:])[:24]
}

// GetCachedReport returns a cached report payload for (kind, params) if present
func GetCachedReport(ctx context.Context, kind, params string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	key := fmt.Sprintf(reportKeyFmt, kind, paramsHash(params))
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheReport caches a report payload for 5 minutes
func CacheReport(ctx context.Context, kind, params string, data []byte) {
	if client == nil {
		return
	}
	key := fmt.Sprintf(reportKeyFmt, kind, paramsHash(params))
	client.Set(ctx, key, data, 5*time.Minute)
}

// GetCachedPhotoURL returns the stored file reference for a photo content
// hash, if a previous upload recorded one.
func GetCachedPhotoURL(ctx context.Context, hash string) (string, bool) {
	if client == nil {
		return "", false
	}
	url, err := client.Get(ctx, fmt.Sprintf(photoHashKeyFmt, hash)).Result()
	if err != nil {
		return "", false
	}
	return url, true
}

// CachePhotoURL records the file reference for a photo content hash.
// Dedup still falls back to the database when the cache is cold.
func CachePhotoURL(ctx context.Context, hash, url string) {
	if client == nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(photoHashKeyFmt, hash), url, 24*time.Hour)
}

// InvalidateProductionCaches drops production-derived report caches after a
// production-log write.
func InvalidateProductionCaches(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "report:production:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
