package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionPurger deletes expired and revoked sessions.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// RunSessionJanitor purges sessions every interval until ctx is done.
func RunSessionJanitor(ctx context.Context, purger SessionPurger, interval time.Duration, log *zap.SugaredLogger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := purger.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Errorw("session purge failed", "error", err)
				continue
			}
			if purged > 0 {
				log.Infow("purged sessions", "count", purged)
			}
		}
	}
}
