package services

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/BradenHooton/decoyra/internal/models"
)

// MockEventStore implements EventStore for testing
type MockEventStore struct {
	AppendFunc  func(ctx context.Context, event models.Event) error
	ReadAllFunc func(ctx context.Context) ([]string, error)
}

func (m *MockEventStore) Append(ctx context.Context, event models.Event) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	return nil
}

func (m *MockEventStore) ReadAll(ctx context.Context) ([]string, error) {
	if m.ReadAllFunc != nil {
		return m.ReadAllFunc(ctx)
	}
	return nil, nil
}

// MockAlertNotifier implements AlertNotifier for testing and records every alert it sees
type MockAlertNotifier struct {
	NotifyBruteForceFunc func(ctx context.Context, alert models.BruteForceAlert) error

	mu     sync.Mutex
	alerts []models.BruteForceAlert
}

func (m *MockAlertNotifier) NotifyBruteForce(ctx context.Context, alert models.BruteForceAlert) error {
	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	if m.NotifyBruteForceFunc != nil {
		return m.NotifyBruteForceFunc(ctx, alert)
	}
	return nil
}

// Alerts returns the alerts received so far
func (m *MockAlertNotifier) Alerts() []models.BruteForceAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.BruteForceAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// MockSESClient implements SESClient for testing
type MockSESClient struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESClient) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, params, optFns...)
	}
	return &ses.SendEmailOutput{}, nil
}
