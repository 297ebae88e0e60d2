package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/decoyra/internal/metrics"
	"github.com/BradenHooton/decoyra/internal/models"
	"github.com/BradenHooton/decoyra/internal/repositories"
)

// BruteForceThreshold is the number of login attempts from one IP, counted
// since that IP's last alert, that triggers a new alert
const BruteForceThreshold = 5

// BruteForceService detects brute force streaks by replaying the event log backward
type BruteForceService struct {
	store  repositories.EventStore
	locks  *ipLocks
	logger *slog.Logger
}

// NewBruteForceService creates a new BruteForceService
func NewBruteForceService(store repositories.EventStore, logger *slog.Logger) *BruteForceService {
	return &BruteForceService{
		store:  store,
		locks:  newIPLocks(),
		logger: logger,
	}
}

// RecordAttempt appends the login attempt and runs the brute force check while
// holding the lock for the attempt's IP, so the alert count is exact and two
// concurrent attempts can't both alert.
func (s *BruteForceService) RecordAttempt(ctx context.Context, attempt models.LoginAttempt) (*models.BruteForceAlert, error) {
	unlock := s.locks.Lock(attempt.ClientIP)
	defer unlock()

	if err := s.store.Append(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record login attempt: %w", err)
	}

	return s.checkLocked(ctx, attempt.ClientIP, attempt.Timestamp)
}

// CheckAndMaybeAlert decides whether clientIP's current streak crosses the
// threshold and, if so, appends and returns the alert. Call it after the
// triggering attempt has been appended.
func (s *BruteForceService) CheckAndMaybeAlert(ctx context.Context, clientIP string, timestamp time.Time) (*models.BruteForceAlert, error) {
	unlock := s.locks.Lock(clientIP)
	defer unlock()

	return s.checkLocked(ctx, clientIP, timestamp)
}

func (s *BruteForceService) checkLocked(ctx context.Context, clientIP string, timestamp time.Time) (*models.BruteForceAlert, error) {
	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		// unreadable history is handled like empty history
		s.logger.WarnContext(ctx, "event log unreadable, skipping brute force check",
			slog.String("client_ip", clientIP),
			slog.Any("error", err))
		metrics.EventLogErrorsTotal.WithLabelValues("read").Inc()
		return nil, nil
	}

	attempts := scanStreak(lines, clientIP)
	if attempts < BruteForceThreshold {
		return nil, nil
	}

	alert := models.BruteForceAlert{
		Timestamp:    timestamp,
		ClientIP:     clientIP,
		AttemptCount: attempts,
	}
	if err := s.store.Append(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to record brute force alert: %w", err)
	}

	return &alert, nil
}

// scanStreak walks the log from newest to oldest and counts login attempts
// from clientIP, stopping at that IP's most recent alert. The result is the
// length of the current streak, which restarts at zero after every alert.
func scanStreak(lines []string, clientIP string) int {
	attempts := 0
	for i := len(lines) - 1; i >= 0; i-- {
		event, err := repositories.DecodeEvent(lines[i])
		if err != nil {
			continue
		}

		switch ev := event.(type) {
		case models.BruteForceAlert:
			if ev.ClientIP == clientIP {
				return attempts
			}
		case models.LoginAttempt:
			if ev.ClientIP == clientIP {
				attempts++
			}
		}
	}
	return attempts
}
