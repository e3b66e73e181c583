package middleware

import (
	"errors"
	"sync"
	"testing"
	"time"

	"teamhq/config"
	"teamhq/models"
)

func testStore(now *time.Time) *memoryStore {
	return &memoryStore{
		counters: make(map[string]*counter),
		now:      func() time.Time { return *now },
	}
}

func testConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:      true,
		Window:       15 * time.Minute,
		MaxPerIP:     3,
		MaxPerDevice: 5,
		MaxPerEmail:  2,
		MaxPerTeam:   10,
	}
}

func TestLimiterRejectsOverLimit(t *testing.T) {
	now := time.Now()
	limiter := NewLimiter(testConfig(), testStore(&now))

	ip := DimensionValue{DimensionIP, "203.0.113.9"}

	// MaxPerIP = 3: the first three pass, the fourth is rejected
	for i := 0; i < 3; i++ {
		if err := limiter.Check(ip); err != nil {
			t.Fatalf("request %d rejected: %v", i+1, err)
		}
	}

	err := limiter.Check(ip)
	if err == nil {
		t.Fatal("4th request within window was allowed")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Status != 429 {
		t.Fatalf("status = %d, want 429", appErr.Status)
	}
	// Full window still remains: Retry-After must be ≈ window seconds
	if appErr.RetryAfter < 14*60 || appErr.RetryAfter > 15*60 {
		t.Fatalf("Retry-After = %d, want ≈ %d", appErr.RetryAfter, 15*60)
	}
}

func TestLimiterWindowReset(t *testing.T) {
	now := time.Now()
	limiter := NewLimiter(testConfig(), testStore(&now))

	ip := DimensionValue{DimensionIP, "203.0.113.9"}
	for i := 0; i < 3; i++ {
		if err := limiter.Check(ip); err != nil {
			t.Fatalf("request %d rejected: %v", i+1, err)
		}
	}
	if err := limiter.Check(ip); err == nil {
		t.Fatal("over-limit request allowed")
	}

	// Once the window elapses the same IP succeeds again
	now = now.Add(15*time.Minute + time.Second)
	if err := limiter.Check(ip); err != nil {
		t.Fatalf("request after window elapsed rejected: %v", err)
	}
}

func TestLimiterDimensionsIndependent(t *testing.T) {
	now := time.Now()
	limiter := NewLimiter(testConfig(), testStore(&now))

	// Exhaust the email dimension
	email := DimensionValue{DimensionEmail, "parent@example.com"}
	for i := 0; i < 2; i++ {
		if err := limiter.Check(email); err != nil {
			t.Fatalf("email request %d rejected: %v", i+1, err)
		}
	}
	if err := limiter.Check(email); err == nil {
		t.Fatal("email over limit allowed")
	}

	// Other identifiers and other dimensions stay unaffected
	if err := limiter.Check(DimensionValue{DimensionEmail, "other@example.com"}); err != nil {
		t.Fatalf("unrelated email rejected: %v", err)
	}
	if err := limiter.Check(DimensionValue{DimensionIP, "203.0.113.9"}); err != nil {
		t.Fatalf("unrelated IP rejected: %v", err)
	}
}

// The first violated dimension short-circuits: later dimensions are not
// counted for a rejected request.
func TestLimiterShortCircuits(t *testing.T) {
	now := time.Now()
	store := testStore(&now)
	limiter := NewLimiter(testConfig(), store)

	email := DimensionValue{DimensionEmail, "parent@example.com"}
	team := DimensionValue{DimensionTeam, "7"}

	for i := 0; i < 2; i++ {
		if err := limiter.Check(email); err != nil {
			t.Fatalf("email request %d rejected: %v", i+1, err)
		}
	}

	if err := limiter.Check(email, team); err == nil {
		t.Fatal("violated email dimension allowed")
	}

	if ctr, ok := store.counters["team:7"]; ok && ctr.count != 0 {
		t.Fatalf("team counter incremented despite short-circuit: %d", ctr.count)
	}
}

func TestLimiterSkipsAbsentDimensions(t *testing.T) {
	now := time.Now()
	limiter := NewLimiter(testConfig(), testStore(&now))

	// An empty identifier means the dimension is not applicable
	for i := 0; i < 20; i++ {
		if err := limiter.Check(DimensionValue{DimensionDevice, ""}); err != nil {
			t.Fatalf("absent dimension counted: %v", err)
		}
	}
}

func TestLimiterDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	now := time.Now()
	limiter := NewLimiter(cfg, testStore(&now))

	ip := DimensionValue{DimensionIP, "203.0.113.9"}
	for i := 0; i < 50; i++ {
		if err := limiter.Check(ip); err != nil {
			t.Fatalf("disabled limiter rejected request: %v", err)
		}
	}
}

// Counters are the one piece of shared mutable state across requests; hammer
// one key concurrently and verify exactly max requests got through.
func TestMemoryStoreConcurrentAccess(t *testing.T) {
	now := time.Now()
	store := testStore(&now)

	const workers = 50
	const max = 10

	var allowed int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Allow("ip:203.0.113.9", max, time.Minute).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != max {
		t.Fatalf("allowed = %d, want exactly %d", allowed, max)
	}
}
