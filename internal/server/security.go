package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/palemoky/spellcast/internal/logger"
)

const rateRecordTTL = 10 * time.Minute

// RateLimiter limits new connections per IP over a one-second and a
// one-minute window. Exceeding either bans the IP for banDuration.
type RateLimiter struct {
	requests map[string]*clientRate
	mu       sync.Mutex

	maxPerSecond int
	maxPerMinute int
	banDuration  time.Duration
	now          func() time.Time
}

type clientRate struct {
	secondCount int
	minuteCount int
	lastSecond  time.Time
	lastMinute  time.Time
	bannedUntil time.Time
}

// NewRateLimiter creates a limiter. Call Run to expire old records.
func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:     make(map[string]*clientRate),
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		banDuration:  banDuration,
		now:          time.Now,
	}
}

// Allow records one connection attempt from ip.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rate, ok := rl.requests[ip]
	if !ok {
		rl.requests[ip] = &clientRate{secondCount: 1, minuteCount: 1, lastSecond: now, lastMinute: now}
		return true
	}
	if now.Before(rate.bannedUntil) {
		return false
	}

	if now.Sub(rate.lastSecond) >= time.Second {
		rate.secondCount = 0
		rate.lastSecond = now
	}
	if now.Sub(rate.lastMinute) >= time.Minute {
		rate.minuteCount = 0
		rate.lastMinute = now
	}
	rate.secondCount++
	rate.minuteCount++

	if rate.secondCount > rl.maxPerSecond || rate.minuteCount > rl.maxPerMinute {
		rate.bannedUntil = now.Add(rl.banDuration)
		logger.L().Warnw("🚫 ip banned", "ip", ip, "for", rl.banDuration)
		return false
	}
	return true
}

// IsBanned reports whether ip is currently banned.
func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rate, ok := rl.requests[ip]
	return ok && rl.now().Before(rate.bannedUntil)
}

// Run drops idle records every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, rate := range rl.requests {
		if now.Sub(rate.lastMinute) > rateRecordTTL && now.After(rate.bannedUntil) {
			delete(rl.requests, ip)
		}
	}
}

// OriginChecker validates the Origin header of upgrade requests.
type OriginChecker struct {
	allowed  map[string]bool
	allowAll bool
}

// NewOriginChecker accepts exact origins; "*" allows everything.
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]bool)}
	for _, origin := range origins {
		if origin == "*" {
			oc.allowAll = true
			return oc
		}
		oc.allowed[strings.ToLower(origin)] = true
	}
	return oc
}

// Check reports whether r may upgrade. Requests without an Origin header
// come from native clients and are allowed.
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return oc.allowed[strings.ToLower(origin)]
}

// GetClientIP returns the caller's address, preferring proxy headers.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// MessageRateLimiter limits messages per connection per second.
type MessageRateLimiter struct {
	limits map[string]*messageRate
	mu     sync.Mutex

	maxPerSecond     int
	warningThreshold int
	now              func() time.Time
}

type messageRate struct {
	count     int
	lastReset time.Time
	warnings  int
}

// NewMessageRateLimiter warns at half of maxPerSecond.
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		limits:           make(map[string]*messageRate),
		maxPerSecond:     maxPerSecond,
		warningThreshold: maxPerSecond / 2,
		now:              time.Now,
	}
}

// AllowMessage records one message from clientID. warning is set once the
// connection is close to or over the limit.
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	rate, ok := ml.limits[clientID]
	if !ok {
		ml.limits[clientID] = &messageRate{count: 1, lastReset: now}
		return true, false
	}
	if now.Sub(rate.lastReset) >= time.Second {
		rate.count = 1
		rate.lastReset = now
		return true, false
	}

	rate.count++
	if rate.count > ml.maxPerSecond {
		rate.warnings++
		return false, true
	}
	return true, rate.count > ml.warningThreshold
}

// Warnings returns how many times clientID went over the limit.
func (ml *MessageRateLimiter) Warnings(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	if rate, ok := ml.limits[clientID]; ok {
		return rate.warnings
	}
	return 0
}

// RemoveClient forgets clientID.
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.limits, clientID)
}
