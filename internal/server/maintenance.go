package server

import (
	"context"
	"time"

	"taskflow/backend/internal/cache"
	"taskflow/backend/internal/logger"
)

// ExpiredTokenPurger removes refresh tokens whose expiry is before now.
type ExpiredTokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RunMaintenance sweeps expired refresh tokens and in-memory revocations
// every interval until ctx is done. revocations may be nil.
func RunMaintenance(ctx context.Context, interval time.Duration, tokens ExpiredTokenPurger, revocations *cache.RevocationStore) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sweep(ctx, now, tokens, revocations)
		}
	}
}

func sweep(ctx context.Context, now time.Time, tokens ExpiredTokenPurger, revocations *cache.RevocationStore) {
	if tokens != nil {
		purged, err := tokens.DeleteExpired(ctx, now.UTC())
		if err != nil {
			logger.Warn("purging expired refresh tokens failed", "error", err)
		} else if purged > 0 {
			logger.Debug("purged expired refresh tokens", "count", purged)
		}
	}
	if revocations != nil {
		if dropped := revocations.Cleanup(); dropped > 0 {
			logger.Debug("dropped expired revocations", "count", dropped)
		}
	}
}
