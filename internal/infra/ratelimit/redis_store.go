package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "storefront:ratelimit:"
	redisTimeout   = 500 * time.Millisecond
)

// fixedWindowScript increments the counter and makes sure it expires. The
// expiry is also set on any later hit that finds the key without a TTL, so a
// counter can never outlive its window.
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RedisStore is a fixed-window counter shared between replicas. The counter
// and its expiry are updated atomically in one round trip.
type RedisStore struct {
	client *redis.Client
	max    int64
	window time.Duration
	logger *slog.Logger
}

// NewRedisStore allows max requests per identifier in each window.
func NewRedisStore(client *redis.Client, max int, windowSize time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		max:    int64(max),
		window: windowSize,
		logger: logger,
	}
}

// Allow implements echo's middleware.RateLimiterStore. Redis failures let
// the request through: the limiter guards volume, not correctness.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	key := redisKeyPrefix + identifier

	count, err := fixedWindowScript.Run(ctx, s.client, []string{key}, s.window.Milliseconds()).Int64()
	if err != nil {
		s.logger.Warn("Rate limiter Redis update failed", slog.String("key", key), slog.Any("error", err))

		return true, nil
	}

	return count <= s.max, nil
}
