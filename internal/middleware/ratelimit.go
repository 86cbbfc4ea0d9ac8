package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahumphries/campusnet/internal/logging"
)

// incrWithExpire counts a hit and starts the window on the first one, in a
// single round trip so concurrent requests cannot race the EXPIRE.
const incrWithExpire = `
	local current = redis.call("INCR", KEYS[1])
	if current == 1 then
		redis.call("EXPIRE", KEYS[1], ARGV[1])
	end
	return current
`

// RateLimiter is a fixed-window counter keyed per client. With a nil client
// it passes every request through, so tests and redis-less dev setups need
// no special casing.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
	keyFn  func(r *http.Request) string
	// failOpen controls what happens when redis itself errors. Login and
	// register fail closed: an attacker should not be able to lift the
	// limit by degrading redis.
	failOpen bool
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, prefix string, keyFn func(r *http.Request) string, failOpen bool) *RateLimiter {
	return &RateLimiter{
		client:   client,
		limit:    limit,
		window:   window,
		prefix:   prefix,
		keyFn:    keyFn,
		failOpen: failOpen,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		suffix := rl.keyFn(r)
		if suffix == "" {
			suffix = GetClientIP(r)
		}

		count, err := rl.take(r.Context(), rl.prefix+suffix)
		if err != nil {
			logging.Error("Rate limit Redis error", map[string]interface{}{"error": err.Error()})
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusServiceUnavailable, "Rate limiting temporarily unavailable")
			return
		}

		if count > rl.limit {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take records one hit against key and returns the window's running count.
func (rl *RateLimiter) take(ctx context.Context, key string) (int64, error) {
	ttlSeconds := int64(rl.window.Seconds())
	result, err := rl.client.Eval(ctx, incrWithExpire, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	// Lua numbers come back as int64 or float64 depending on the reply path.
	switch v := result.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	}
	return 0, fmt.Errorf("unexpected script result type %T", result)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetClientIP prefers proxy headers over the socket address: the first entry
// of X-Forwarded-For, then X-Real-IP, then RemoteAddr without the port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
