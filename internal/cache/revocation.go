package cache

import (
	"context"
	"time"

	"taskflow/backend/internal/logger"
)

const revokedKeyPrefix = "revoked_token:"

// RevocationStore records revoked access token ids until they expire.
// Revocations are always kept in process memory and, when configured,
// mirrored to Redis so every instance sees them. Redis calls go through a
// circuit breaker; while it is open only the memory copy is consulted.
type RevocationStore struct {
	redis   *RedisStore
	memory  *MemoryStore
	breaker *CircuitBreaker
	metrics *StoreMetrics
}

// NewRevocationStore builds a store. redis may be nil for a single-instance,
// memory-only deployment.
func NewRevocationStore(redis *RedisStore, breakerConfig *CircuitBreakerConfig) *RevocationStore {
	return &RevocationStore{
		redis:   redis,
		memory:  NewMemoryStore(),
		breaker: NewCircuitBreaker(breakerConfig),
		metrics: NewStoreMetrics(),
	}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := revokedKeyPrefix + tokenID
	s.memory.Set(ctx, key, ttl)
	s.metrics.RecordRevocation()

	if s.redis == nil {
		return nil
	}
	if err := s.breaker.Execute(func() error {
		return s.redis.Set(ctx, key, "1", ttl)
	}); err != nil {
		s.metrics.RecordError()
		logger.WarnContext(ctx, "token revocation not mirrored to redis", "error", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := revokedKeyPrefix + tokenID
	if s.memory.Exists(ctx, key) {
		s.metrics.RecordLookup(true)
		return true, nil
	}

	if s.redis == nil {
		s.metrics.RecordLookup(false)
		return false, nil
	}

	var revoked bool
	if err := s.breaker.Execute(func() error {
		var err error
		revoked, err = s.redis.Exists(ctx, key)
		return err
	}); err != nil {
		s.metrics.RecordError()
		logger.WarnContext(ctx, "token revocation lookup fell back to memory", "error", err)
		s.metrics.RecordLookup(false)
		return false, nil
	}

	s.metrics.RecordLookup(revoked)
	return revoked, nil
}

// Health reports the Redis connection state. A memory-only store is always
// healthy.
func (s *RevocationStore) Health(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Health(ctx)
}

// Cleanup drops expired in-memory revocations.
func (s *RevocationStore) Cleanup() int {
	return s.memory.Sweep()
}

func (s *RevocationStore) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"backend":  "memory",
		"metrics":  s.metrics.Snapshot(),
		"hit_rate": s.metrics.HitRate(),
		"entries":  s.memory.Len(),
	}
	if s.redis != nil {
		stats["backend"] = "redis"
		stats["circuit_breaker"] = s.breaker.GetStats()
		stats["pool"] = s.redis.Stats()
	}
	return stats
}

func (s *RevocationStore) Close() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}
