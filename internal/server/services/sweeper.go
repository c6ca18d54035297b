package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
)

// Sweeper periodically removes expired refresh tokens from stores that do
// not expire entries on their own.
type Sweeper struct {
	purger   refreshtokens.Purger
	interval time.Duration
	log      logging.Logger
	metrics  *metrics.Metrics
}

func NewSweeper(p refreshtokens.Purger, interval time.Duration, log logging.Logger, m *metrics.Metrics) *Sweeper {
	if log == nil {
		log = logging.Nop{}
	}
	return &Sweeper{purger: p, interval: interval, log: log, metrics: m}
}

// Run sweeps every interval until ctx is cancelled. A non-positive interval
// disables sweeping.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.log.Info(ctx, "sweeper disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one purge. Failures are logged and retried on the next tick.
func (s *Sweeper) Sweep(ctx context.Context) int64 {
	n, err := s.purger.Purge(ctx)
	if err != nil {
		s.log.Error(ctx, "purge expired refresh tokens", "error", err)
		return 0
	}
	if n > 0 {
		s.log.Debug(ctx, "purged expired refresh tokens", "count", n)
		if s.metrics != nil {
			s.metrics.PurgedTokensTotal.Add(float64(n))
		}
	}
	return n
}
