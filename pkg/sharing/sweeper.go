package sharing

import (
	"context"
	"time"

	"github.com/pawprint-care/platform/pkg/common/logger"
	"github.com/pawprint-care/platform/pkg/observability/metrics"
)

// Sweeper periodically deletes expired share tokens. Sweep failures are
// logged and never surface to any user-facing flow.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{service: service, interval: interval}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Share token sweeper stopped")
			return
		case <-ticker.C:
			deleted, err := s.service.CleanupExpired(ctx)
			if err != nil {
				logger.Log.WithError(err).Error("share token sweep failed")
				continue
			}
			if deleted > 0 {
				metrics.AddTokensCleaned(deleted)
				logger.Log.WithField("deleted", deleted).Info("Swept expired share tokens")
			}
		}
	}
}
