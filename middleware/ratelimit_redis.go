// middleware/ratelimit_redis.go - Shared counter store for multi-instance deployments
package middleware

import (
	"context"
	"log"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type redisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisStore connects a Redis-backed counter store. Counters become
// consistent across instances; the INCR/EXPIRE fixed window keeps the same
// semantics as the in-memory store. Redis failures fail open so the limiter
// never takes the API down.
func NewRedisStore(addr, password string, db int) (CounterStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &redisStore{
		client:  client,
		prefix:  "teamhq:ratelimit:",
		timeout: 250 * time.Millisecond,
	}, nil
}

func (s *redisStore) Allow(key string, max int, window time.Duration) Decision {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	redisKey := s.prefix + key
	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		log.Printf("rate limiter redis incr failed: %v", err)
		return Decision{Allowed: true}
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			log.Printf("rate limiter redis expire failed: %v", err)
		}
	}

	if int(count) <= max {
		return Decision{Allowed: true}
	}

	ttl, err := s.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return Decision{Allowed: false, RetryAfter: int(math.Ceil(ttl.Seconds()))}
}
