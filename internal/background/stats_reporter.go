package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/decoyra/internal/metrics"
	"github.com/BradenHooton/decoyra/internal/models"
)

// StatsComputer rebuilds attack statistics from the event log
type StatsComputer interface {
	Compute(ctx context.Context) models.Stats
}

// StatsReporter periodically replays the event log into the Prometheus gauges
// and logs a one-line summary
type StatsReporter struct {
	stats    StatsComputer
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStatsReporter creates a new stats reporter
func NewStatsReporter(stats StatsComputer, logger *slog.Logger, interval time.Duration) *StatsReporter {
	return &StatsReporter{
		stats:    stats,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the report loop until Stop is called or ctx is cancelled
func (sr *StatsReporter) Start(ctx context.Context) {
	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	// Run immediately on startup
	sr.report(ctx)

	for {
		select {
		case <-ticker.C:
			sr.report(ctx)
		case <-sr.stopCh:
			sr.logger.Info("stats reporter stopped")
			return
		case <-ctx.Done():
			sr.logger.Info("stats reporter context cancelled")
			return
		}
	}
}

func (sr *StatsReporter) report(ctx context.Context) {
	stats := sr.stats.Compute(ctx)

	metrics.LoggedLoginAttempts.Set(float64(stats.TotalLoginAttempts))
	metrics.LoggedBruteForceAlerts.Set(float64(stats.BruteForceAlerts))
	metrics.DistinctAttackerIPs.Set(float64(len(stats.AttacksByIP)))

	sr.logger.Info("attack summary",
		slog.Uint64("total_login_attempts", stats.TotalLoginAttempts),
		slog.Uint64("brute_force_alerts", stats.BruteForceAlerts),
		slog.Int("distinct_ips", len(stats.AttacksByIP)),
		slog.Int("endpoints", len(stats.AttacksByEndpoint)))
}

// Stop signals the stats reporter to stop. Safe to call more than once.
func (sr *StatsReporter) Stop() {
	sr.stopOnce.Do(func() {
		close(sr.stopCh)
	})
}
