package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/Alex7k/websocket-chat/ratelimit"
)

// RateLimitJanitor periodically sweeps expired rate-limit windows so keys
// that go permanently idle do not grow the limiter's map without bound.
type RateLimitJanitor struct {
	log      *slog.Logger
	limiter  *ratelimit.Limiter
	interval time.Duration
}

func NewRateLimitJanitor(log *slog.Logger, limiter *ratelimit.Limiter, interval time.Duration) *RateLimitJanitor {
	return &RateLimitJanitor{log: log, limiter: limiter, interval: interval}
}

func (w *RateLimitJanitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := w.limiter.Sweep(); removed > 0 {
				w.log.Debug("swept idle rate-limit windows",
					"removed", removed,
					"remaining", w.limiter.Size())
			}
		}
	}
}
