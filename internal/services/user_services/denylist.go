// File: internal/services/user_services/denylist.go
package user_services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistPrefix = "denylist:"

// TokenDenylist records signed-out tokens until they would have expired
// anyway. A denylisted token fails session validation even though its
// signature still checks out.
type TokenDenylist interface {
	Deny(ctx context.Context, token string, ttl time.Duration) error
	IsDenied(ctx context.Context, token string) (bool, error)
}

// RedisTokenDenylist keeps entries in Redis with a TTL matching the
// token's remaining lifetime, so the set cleans itself up.
type RedisTokenDenylist struct {
	client *redis.Client
}

func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

func (d *RedisTokenDenylist) Deny(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to record.
		return nil
	}
	return d.client.Set(ctx, denylistPrefix+token, "1", ttl).Err()
}

func (d *RedisTokenDenylist) IsDenied(ctx context.Context, token string) (bool, error) {
	n, err := d.client.Exists(ctx, denylistPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
