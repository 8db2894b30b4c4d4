package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MatchRateLimiter acota cuantas invocaciones de matching acepta un learner
// por ventana. La cuota se consume aunque el request termine en cache hit:
// limita el trafico total del endpoint, no solo el gasto en AI.
type MatchRateLimiter interface {
	// Allow devuelve si el request se acepta y, si no, cuantos segundos
	// faltan para que la invocacion mas vieja salga de la ventana.
	Allow(ctx context.Context, learnerID string) (bool, int, error)
}

/*
========================
 Implementacion en memoria
========================
*/

// memoryMatchRateLimiter implementa una ventana deslizante con timestamps.
// Check-and-increment bajo un unico lock: dos requests simultaneos del mismo
// learner nunca corrompen el contador.
type memoryMatchRateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	entries map[string][]time.Time
	now     func() time.Time
}

func NewMemoryMatchRateLimiter(window time.Duration, max int) MatchRateLimiter {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if max <= 0 {
		max = 5
	}
	return &memoryMatchRateLimiter{
		window:  window,
		max:     max,
		entries: make(map[string][]time.Time),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryMatchRateLimiter) Allow(_ context.Context, learnerID string) (bool, int, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return false, 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.entries[learnerID][:0]
	for _, t := range l.entries[learnerID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.max {
		l.entries[learnerID] = kept
		oldest := kept[0]
		retryAfter := int(math.Ceil(l.window.Seconds() - now.Sub(oldest).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter, nil
	}

	l.entries[learnerID] = append(kept, now)
	return true, 0, nil
}

/*
========================
 Implementacion redis
========================
*/

// Ventana fija via INCR+EXPIRE; el TTL restante de la clave es el retry-after.
const redisMatchAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`

type redisMatchRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisMatchRateLimiter(client *redis.Client, window time.Duration, max int) MatchRateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = 5 * time.Minute
	}
	if max <= 0 {
		max = 5
	}
	return &redisMatchRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "match:rl:",
	}
}

func (l *redisMatchRateLimiter) Allow(ctx context.Context, learnerID string) (bool, int, error) {
	learnerID = strings.TrimSpace(learnerID)
	if learnerID == "" {
		return false, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 300
	}

	res, err := l.client.Eval(ctx, redisMatchAllowScript, []string{l.prefix + learnerID}, seconds).Slice()
	if err != nil || len(res) != 2 {
		// Redis caido no debe tirar el endpoint: se deja pasar.
		return true, 0, nil
	}

	count, _ := res[0].(int64)
	ttl, _ := res[1].(int64)

	if count > int64(l.max) {
		retryAfter := int(ttl)
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter, nil
	}
	return true, 0, nil
}
