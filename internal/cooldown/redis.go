package cooldown

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRegistry keeps dismissals as Redis keys whose TTL is the cooldown
// window, so expiry needs no sweeping. Useful when several devices share
// one suggestion feed.
type RedisRegistry struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRegistry creates a registry over an existing Redis client.
func NewRedisRegistry(client redis.UniversalClient) *RedisRegistry {
	return &RedisRegistry{client: client, prefix: "kinship:cooldown:"}
}

func (r *RedisRegistry) key(suggestionID string) string {
	return r.prefix + suggestionID
}

func (r *RedisRegistry) IsOnCooldown(ctx context.Context, suggestionID string, _ time.Time) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(suggestionID)).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown lookup: %w", err)
	}
	return n > 0, nil
}

func (r *RedisRegistry) RecordDismissal(ctx context.Context, suggestionID string, now time.Time) error {
	ttl := time.Duration(DaysFor(suggestionID)) * 24 * time.Hour
	if err := r.client.Set(ctx, r.key(suggestionID), now.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("cooldown record: %w", err)
	}
	return nil
}
