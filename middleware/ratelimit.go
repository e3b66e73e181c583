// middleware/ratelimit.go - Fixed-window rate limiting across independent dimensions
package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"teamhq/config"
	"teamhq/models"
)

// Dimension identifies one independent counter map. Each dimension carries its
// own configured max; all share the window length.
type Dimension string

const (
	DimensionIP     Dimension = "ip"
	DimensionDevice Dimension = "device"
	DimensionEmail  Dimension = "email"
	DimensionTeam   Dimension = "team"
)

// DimensionValue pairs a dimension with the concrete identifier to count
// against (an IP, a device fingerprint, an email, a team id).
type DimensionValue struct {
	Dimension  Dimension
	Identifier string
}

// Decision is one store verdict: whether the request fits in the current
// window, and how long until the window resets when it does not.
type Decision struct {
	Allowed    bool
	RetryAfter int // seconds remaining in the window
}

// CounterStore is the shared mutable state behind the limiter. The default is
// a process-local in-memory map; a Redis store makes counters shared across
// instances.
type CounterStore interface {
	Allow(key string, max int, window time.Duration) Decision
}

type counter struct {
	count       int
	windowStart time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	now      func() time.Time
}

// NewMemoryStore returns the in-process counter store.
func NewMemoryStore() CounterStore {
	return &memoryStore{
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func (s *memoryStore) Allow(key string, max int, window time.Duration) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ctr, ok := s.counters[key]
	if !ok {
		ctr = &counter{windowStart: now}
		s.counters[key] = ctr
	}

	// A counter's window resets once elapsed time exceeds the window length
	if now.Sub(ctr.windowStart) > window {
		ctr.count = 0
		ctr.windowStart = now
	}

	remaining := window - now.Sub(ctr.windowStart)
	retryAfter := int(math.Ceil(remaining.Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}

	if ctr.count >= max {
		return Decision{Allowed: false, RetryAfter: retryAfter}
	}

	ctr.count++
	return Decision{Allowed: true}
}

// Limiter evaluates every applicable dimension independently; the first
// violated dimension short-circuits the rest. Fixed-window counting: bursts
// straddling a window boundary are an accepted limitation.
type Limiter struct {
	store  CounterStore
	cfg    config.RateLimitConfig
	maxFor map[Dimension]int
}

func NewLimiter(cfg config.RateLimitConfig, store CounterStore) *Limiter {
	return &Limiter{
		store: store,
		cfg:   cfg,
		maxFor: map[Dimension]int{
			DimensionIP:     cfg.MaxPerIP,
			DimensionDevice: cfg.MaxPerDevice,
			DimensionEmail:  cfg.MaxPerEmail,
			DimensionTeam:   cfg.MaxPerTeam,
		},
	}
}

// Check counts the request against every present dimension. Returns a 429
// error carrying the seconds remaining in the violated window, or nil.
func (l *Limiter) Check(dims ...DimensionValue) error {
	if !l.cfg.Enabled {
		return nil
	}

	for _, dim := range dims {
		if dim.Identifier == "" {
			continue
		}
		max, ok := l.maxFor[dim.Dimension]
		if !ok || max <= 0 {
			continue
		}
		key := string(dim.Dimension) + ":" + dim.Identifier
		decision := l.store.Allow(key, max, l.cfg.Window)
		if !decision.Allowed {
			return models.ErrRateLimited(
				fmt.Sprintf("rate limit exceeded for %s, try again later", dim.Dimension),
				decision.RetryAfter,
			)
		}
	}
	return nil
}

// RateLimit applies the pre-auth dimensions (IP and device fingerprint) to a
// route group. Email and team dimensions are checked inside the handlers that
// know those identifiers.
func RateLimit(l *Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := l.Check(
			DimensionValue{DimensionIP, c.IP()},
			DimensionValue{DimensionDevice, c.Get("X-Device-Id")},
		); err != nil {
			return err
		}
		return c.Next()
	}
}
