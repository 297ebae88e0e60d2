package logger

import (
	"context"
	"log/slog"
	"time"
)

// maxLoggedValue caps attacker-supplied strings in audit output
const maxLoggedValue = 256

// DecoyLoginEvent describes a credential submission for the audit log
type DecoyLoginEvent struct {
	Endpoint  string
	IPAddress string
	UserAgent string
	Username  string
	Password  string
}

// AuditLogger writes security audit lines for attacker activity
type AuditLogger struct {
	logger *slog.Logger
	env    string
}

// NewAuditLogger creates a new audit logger. In production, captured
// passwords are redacted from the audit output (the event log keeps them).
func NewAuditLogger(logger *slog.Logger, env string) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		env:    env,
	}
}

// LogDecoyLogin logs a login attempt against a decoy endpoint
func (al *AuditLogger) LogDecoyLogin(ctx context.Context, event DecoyLoginEvent) {
	ua := ClassifyUserAgent(event.UserAgent)

	attrs := []slog.Attr{
		slog.String("audit_type", "decoy"),
		slog.String("event_type", "login_attempt"),
		slog.String("endpoint", event.Endpoint),
		slog.String("ip_address", event.IPAddress),
		slog.String("username", Truncate(event.Username, maxLoggedValue)),
		RedactedAttr("password", Truncate(event.Password, maxLoggedValue), al.env),
		slog.String("user_agent", Truncate(event.UserAgent, maxLoggedValue)),
		slog.String("ua_browser", ua.Browser),
		slog.String("ua_os", ua.OS),
		slog.String("ua_device", ua.Device),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// LogBruteForceAlert logs a brute force alert at warning level
func (al *AuditLogger) LogBruteForceAlert(ctx context.Context, ipAddress string, attempts int) {
	attrs := []slog.Attr{
		slog.String("audit_type", "decoy"),
		slog.String("event_type", "brute_force_alert"),
		slog.String("ip_address", ipAddress),
		slog.Int("attempts", attempts),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	al.logger.LogAttrs(ctx, slog.LevelWarn, "audit", attrs...)
}

// LogScamMessage logs an intake message and the reply rule it matched
func (al *AuditLogger) LogScamMessage(ctx context.Context, ipAddress, rule string, textLength int) {
	attrs := []slog.Attr{
		slog.String("audit_type", "decoy"),
		slog.String("event_type", "scam_message"),
		slog.String("ip_address", ipAddress),
		slog.String("reply_rule", rule),
		slog.Int("text_length", textLength),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}
