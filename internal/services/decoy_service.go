package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/decoyra/internal/metrics"
	"github.com/BradenHooton/decoyra/internal/models"
	"github.com/BradenHooton/decoyra/internal/repositories"
	pkglogger "github.com/BradenHooton/decoyra/pkg/logger"
)

// DecoyService records attacker activity against the decoy endpoints.
// Nothing it does can fail a request: storage and notification errors are
// logged and counted, and the decoy response still goes out.
type DecoyService struct {
	store         repositories.EventStore
	detector      *BruteForceService
	responder     *ScamResponder
	notifier      AlertNotifier
	auditLogger   *pkglogger.AuditLogger
	logger        *slog.Logger
	notifyTimeout time.Duration
	notifications sync.WaitGroup
}

// NewDecoyService creates a new DecoyService
func NewDecoyService(
	store repositories.EventStore,
	detector *BruteForceService,
	responder *ScamResponder,
	notifier AlertNotifier,
	auditLogger *pkglogger.AuditLogger,
	logger *slog.Logger,
	notifyTimeout time.Duration,
) *DecoyService {
	if notifier == nil {
		notifier = NoopAlertNotifier{}
	}
	return &DecoyService{
		store:         store,
		detector:      detector,
		responder:     responder,
		notifier:      notifier,
		auditLogger:   auditLogger,
		logger:        logger,
		notifyTimeout: notifyTimeout,
	}
}

// RecordLogin stores a login attempt and returns the brute force alert it
// triggered, if any
func (s *DecoyService) RecordLogin(ctx context.Context, attempt models.LoginAttempt) *models.BruteForceAlert {
	if attempt.Timestamp.IsZero() {
		attempt.Timestamp = time.Now().UTC()
	}

	metrics.LoginAttemptsTotal.WithLabelValues(attempt.Endpoint).Inc()
	s.auditLogger.LogDecoyLogin(ctx, pkglogger.DecoyLoginEvent{
		Endpoint:  attempt.Endpoint,
		IPAddress: attempt.ClientIP,
		UserAgent: attempt.UserAgent,
		Username:  attempt.Username,
		Password:  attempt.Password,
	})

	alert, err := s.detector.RecordAttempt(ctx, attempt)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to write event log",
			slog.String("client_ip", attempt.ClientIP),
			slog.Any("error", err))
		metrics.EventLogErrorsTotal.WithLabelValues("append").Inc()
		return nil
	}
	if alert == nil {
		return nil
	}

	metrics.BruteForceAlertsTotal.Inc()
	s.auditLogger.LogBruteForceAlert(ctx, alert.ClientIP, alert.AttemptCount)
	s.notify(*alert)

	return alert
}

// HandleMessage answers a scam message and stores it in normalized form
func (s *DecoyService) HandleMessage(ctx context.Context, clientIP, text string) string {
	normalized := NormalizeMessage(text)
	rule := s.responder.Match(normalized)

	metrics.ScamMessagesTotal.WithLabelValues(rule.Name).Inc()
	s.auditLogger.LogScamMessage(ctx, clientIP, rule.Name, len(normalized))

	if err := s.store.Append(ctx, models.ScamMessage{ClientIP: clientIP, Text: normalized}); err != nil {
		s.logger.ErrorContext(ctx, "failed to write event log",
			slog.String("client_ip", clientIP),
			slog.Any("error", err))
		metrics.EventLogErrorsTotal.WithLabelValues("append").Inc()
	}

	return rule.Reply
}

// Wait blocks until in-flight alert notifications have finished
func (s *DecoyService) Wait() {
	s.notifications.Wait()
}

// notify sends the alert in the background. It is detached from the request
// context so the attacker's connection closing doesn't cancel it.
func (s *DecoyService) notify(alert models.BruteForceAlert) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyBruteForce(ctx, alert); err != nil {
			s.logger.Error("failed to send brute force notification",
				slog.String("client_ip", alert.ClientIP),
				slog.Any("error", err))
			metrics.AlertNotificationsTotal.WithLabelValues("failed").Inc()
			return
		}
		metrics.AlertNotificationsTotal.WithLabelValues("sent").Inc()
	}()
}
