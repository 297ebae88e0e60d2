package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/BradenHooton/decoyra/internal/models"
)

// AlertNotifier forwards brute force alerts to an operator
type AlertNotifier interface {
	NotifyBruteForce(ctx context.Context, alert models.BruteForceAlert) error
}

// NoopAlertNotifier is used when no alert recipient is configured
type NoopAlertNotifier struct{}

func (NoopAlertNotifier) NotifyBruteForce(ctx context.Context, alert models.BruteForceAlert) error {
	return nil
}

// SESClient is the subset of the SES API the notifier needs
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// BreakerConfig controls when the notifier stops calling SES
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures before the breaker opens
	Timeout     time.Duration // how long the breaker stays open
}

// SESAlertNotifier e-mails brute force alerts through AWS SES. Calls go through
// a circuit breaker so an SES outage doesn't tie up a goroutine per alert.
type SESAlertNotifier struct {
	client      SESClient
	fromAddress string
	toAddresses []string
	breaker     *gobreaker.CircuitBreaker
	logger      *slog.Logger
}

// NewSESAlertNotifier creates an SESAlertNotifier using the default AWS credential chain
func NewSESAlertNotifier(region, fromAddress string, toAddresses []string, breakerCfg BreakerConfig, logger *slog.Logger) (*SESAlertNotifier, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESAlertNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, toAddresses, breakerCfg, logger), nil
}

// NewSESAlertNotifierWithClient creates an SESAlertNotifier around an existing client
func NewSESAlertNotifierWithClient(client SESClient, fromAddress string, toAddresses []string, breakerCfg BreakerConfig, logger *slog.Logger) *SESAlertNotifier {
	maxFailures := breakerCfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ses-alerts",
		MaxRequests: 1,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("alert notifier circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &SESAlertNotifier{
		client:      client,
		fromAddress: fromAddress,
		toAddresses: toAddresses,
		breaker:     breaker,
		logger:      logger,
	}
}

// NotifyBruteForce sends one plain-text e-mail describing the alert
func (n *SESAlertNotifier) NotifyBruteForce(ctx context.Context, alert models.BruteForceAlert) error {
	alertID := uuid.NewString()

	subject := fmt.Sprintf("[decoyra] Possible brute force attack from %s", alert.ClientIP)

	var body strings.Builder
	fmt.Fprintf(&body, "Possible brute force attack detected by the decoy service.\n\n")
	fmt.Fprintf(&body, "Alert ID:  %s\n", alertID)
	fmt.Fprintf(&body, "Client IP: %s\n", alert.ClientIP)
	fmt.Fprintf(&body, "Attempts:  %d\n", alert.AttemptCount)
	fmt.Fprintf(&body, "Time:      %s\n", alert.Timestamp.UTC().Format(time.RFC3339))

	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: n.toAddresses,
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body.String()),
				},
			},
		},
	}

	result, err := n.breaker.Execute(func() (interface{}, error) {
		return n.client.SendEmail(ctx, input)
	})
	if err != nil {
		return fmt.Errorf("failed to send alert email (%s): %w", n.breaker.Name(), err)
	}

	attrs := []any{
		slog.String("alert_id", alertID),
		slog.String("client_ip", alert.ClientIP),
	}
	if out, ok := result.(*ses.SendEmailOutput); ok && out != nil && out.MessageId != nil {
		attrs = append(attrs, slog.String("message_id", *out.MessageId))
	}
	n.logger.InfoContext(ctx, "brute force alert e-mailed", attrs...)

	return nil
}
