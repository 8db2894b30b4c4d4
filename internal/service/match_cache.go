package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"tutor-match/internal/domain"
)

// MatchCache guarda resultados de matching por fingerprint con TTL fijo.
// Una entrada expirada se trata como ausente.
type MatchCache interface {
	Get(ctx context.Context, fingerprint string) ([]domain.MatchResult, bool, error)
	Put(ctx context.Context, fingerprint string, results []domain.MatchResult, ttl time.Duration) error
}

/*
========================
 Implementacion en memoria
========================
*/

type cacheEntry struct {
	results   []domain.MatchResult
	expiresAt time.Time
}

type memoryMatchCache struct {
	mu    sync.Mutex
	items map[string]cacheEntry
	now   func() time.Time
}

func NewMemoryMatchCache() MatchCache {
	return &memoryMatchCache{
		items: make(map[string]cacheEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *memoryMatchCache) Get(_ context.Context, fingerprint string) ([]domain.MatchResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[fingerprint]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.items, fingerprint)
		return nil, false, nil
	}

	// Copia defensiva: el caller no debe poder mutar la entrada guardada.
	results := make([]domain.MatchResult, len(entry.results))
	copy(results, entry.results)
	return results, true, nil
}

func (c *memoryMatchCache) Put(_ context.Context, fingerprint string, results []domain.MatchResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}

	stored := make([]domain.MatchResult, len(results))
	copy(stored, results)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Escritura completa bajo lock: un lector nunca ve una entrada a medias.
	c.items[fingerprint] = cacheEntry{
		results:   stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

/*
========================
 Implementacion redis
========================
*/

type redisMatchCache struct {
	client *redis.Client
	prefix string
}

func NewRedisMatchCache(client *redis.Client) MatchCache {
	if client == nil {
		return nil
	}
	return &redisMatchCache{
		client: client,
		prefix: "match:cache:",
	}
}

func (c *redisMatchCache) Get(ctx context.Context, fingerprint string) ([]domain.MatchResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var results []domain.MatchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		// Entrada corrupta: se trata como miss, no como falla del request.
		return nil, false, nil
	}
	return results, true, nil
}

func (c *redisMatchCache) Put(ctx context.Context, fingerprint string, results []domain.MatchResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}

	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	// SET con EX es atomico: o la entrada completa queda visible, o nada.
	return c.client.Set(ctx, c.prefix+fingerprint, raw, ttl).Err()
}
