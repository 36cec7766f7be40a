package cache

import (
	"sync/atomic"
	"time"
)

// StoreMetrics counts revocation store traffic.
type StoreMetrics struct {
	Revocations int64 `json:"revocations"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Errors      int64 `json:"errors"`
	Fallbacks   int64 `json:"fallbacks"`
	StartTime   int64 `json:"start_time"`
}

func NewStoreMetrics() *StoreMetrics {
	return &StoreMetrics{
		StartTime: time.Now().Unix(),
	}
}

func (m *StoreMetrics) RecordRevocation() {
	atomic.AddInt64(&m.Revocations, 1)
}

func (m *StoreMetrics) RecordLookup(revoked bool) {
	if revoked {
		atomic.AddInt64(&m.Hits, 1)
		return
	}
	atomic.AddInt64(&m.Misses, 1)
}

// RecordError counts a failed Redis call that was answered from memory.
func (m *StoreMetrics) RecordError() {
	atomic.AddInt64(&m.Errors, 1)
	atomic.AddInt64(&m.Fallbacks, 1)
}

func (m *StoreMetrics) Snapshot() StoreMetrics {
	return StoreMetrics{
		Revocations: atomic.LoadInt64(&m.Revocations),
		Hits:        atomic.LoadInt64(&m.Hits),
		Misses:      atomic.LoadInt64(&m.Misses),
		Errors:      atomic.LoadInt64(&m.Errors),
		Fallbacks:   atomic.LoadInt64(&m.Fallbacks),
		StartTime:   m.StartTime,
	}
}

// HitRate is the share of lookups that found a revoked token, in percent.
func (m *StoreMetrics) HitRate() float64 {
	hits := atomic.LoadInt64(&m.Hits)
	total := hits + atomic.LoadInt64(&m.Misses)
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}
