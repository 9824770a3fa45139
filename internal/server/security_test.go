package server

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRateLimiter_SecondWindow(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := NewRateLimiter(5, 100, 2*time.Second)
	rl.now = clock.Now

	for i := range 5 {
		assert.True(t, rl.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.IsBanned("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "other ips are unaffected")

	clock.Advance(1500 * time.Millisecond)
	assert.False(t, rl.Allow("1.2.3.4"), "still banned")

	clock.Advance(time.Second)
	assert.False(t, rl.IsBanned("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiter_MinuteWindow(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := NewRateLimiter(100, 5, time.Second)
	rl.now = clock.Now

	for range 5 {
		assert.True(t, rl.Allow("10.0.0.1"))
		clock.Advance(2 * time.Second)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiter_Sweep(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	rl := NewRateLimiter(10, 10, time.Second)
	rl.now = clock.Now

	rl.Allow("10.0.0.1")
	clock.Advance(rateRecordTTL + time.Minute)
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.requests)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()
	rl := NewRateLimiter(20, 200, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("same") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, allowed, 20)
	assert.Positive(t, allowed)
}

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()
	clock := newFakeClock()
	ml := NewMessageRateLimiter(4)
	ml.now = clock.Now

	ok, warn := ml.AllowMessage("c")
	assert.True(t, ok)
	assert.False(t, warn)
	ok, warn = ml.AllowMessage("c")
	assert.True(t, ok)
	assert.False(t, warn)
	ok, warn = ml.AllowMessage("c")
	assert.True(t, ok)
	assert.True(t, warn, "past half the limit")
	ml.AllowMessage("c")

	ok, _ = ml.AllowMessage("c")
	assert.False(t, ok)
	assert.Equal(t, 1, ml.Warnings("c"))

	clock.Advance(time.Second)
	ok, warn = ml.AllowMessage("c")
	assert.True(t, ok)
	assert.False(t, warn)

	ml.RemoveClient("c")
	assert.Zero(t, ml.Warnings("c"))
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"listed", []string{"https://play.example"}, "https://PLAY.example", true},
		{"unlisted", []string{"https://play.example"}, "https://evil.example", false},
		{"no header", []string{"https://play.example"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, NewOriginChecker(tt.allowed).Check(r))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", GetClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))
}
