package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/BradenHooton/decoyra/internal/metrics"
	"github.com/BradenHooton/decoyra/internal/models"
	"github.com/BradenHooton/decoyra/internal/repositories"
)

// StatsService rebuilds summary statistics by replaying the whole event log
type StatsService struct {
	store  repositories.EventStore
	logger *slog.Logger
	group  singleflight.Group
}

// NewStatsService creates a new StatsService
func NewStatsService(store repositories.EventStore, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// Compute replays the log once, oldest first. Concurrent callers share one
// replay and each receives its own copy. A missing or unreadable log yields
// zero counters and empty maps.
func (s *StatsService) Compute(ctx context.Context) models.Stats {
	v, _, _ := s.group.Do("stats", func() (interface{}, error) {
		return s.replay(ctx), nil
	})
	return v.(models.Stats).Clone()
}

func (s *StatsService) replay(ctx context.Context) models.Stats {
	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "event log unreadable, returning empty stats", slog.Any("error", err))
		metrics.EventLogErrorsTotal.WithLabelValues("read").Inc()
		return models.NewStats()
	}

	stats, skipped := aggregate(lines)
	if skipped > 0 {
		s.logger.DebugContext(ctx, "skipped unrecognized event log lines", slog.Int("skipped", skipped))
	}
	return stats
}

// aggregate folds the log lines into Stats and reports how many lines were skipped
func aggregate(lines []string) (models.Stats, int) {
	stats := models.NewStats()
	skipped := 0

	for _, line := range lines {
		event, err := repositories.DecodeEvent(line)
		if err != nil {
			skipped++
			continue
		}

		switch ev := event.(type) {
		case models.LoginAttempt:
			stats.TotalLoginAttempts++
			stats.AttacksByIP[ev.ClientIP]++
			stats.AttacksByEndpoint[ev.Endpoint]++
		case models.BruteForceAlert:
			stats.BruteForceAlerts++
		}
	}

	return stats, skipped
}
