package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	tests := []struct {
		name     string
		actual   any
		expected any
	}{
		{"Port", cfg.Server.Port, "8000"},
		{"ServerHeader", cfg.Server.ServerHeader, "uvicorn"},
		{"EventLogPath", cfg.EventLog.Path, "attacks.log"},
		{"WriteTimeout", cfg.Server.WriteTimeout, 15 * time.Second},
		{"StatsRequestsPerMinute", cfg.Decoy.StatsRequestsPerMinute, 30},
		{"TarpitBaseDelayMs", cfg.Decoy.TarpitBaseDelayMs, 300},
		{"ReporterInterval", cfg.Reporter.Interval, 5 * time.Minute},
		{"AlertsEnabled", cfg.Alerts.Enabled(), false},
		{"HoneypotKeys", len(cfg.Decoy.HoneypotAPIKeys), 2},
		{"StatsKeys", len(cfg.Decoy.StatsAPIKeys), 0},
	}

	for _, tt := range tests {
		if tt.actual != tt.expected {
			t.Errorf("%s: got %v, want %v", tt.name, tt.actual, tt.expected)
		}
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EVENT_LOG_PATH", "/var/log/decoy/attacks.log")
	t.Setenv("HONEYPOT_API_KEYS", " key-one , key-two,, ")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")
	t.Setenv("ALERT_EMAIL_TO", "soc@example.com,oncall@example.com")
	t.Setenv("ALERT_EMAIL_FROM", "decoy@example.com")
	t.Setenv("ALERT_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("Port: got %q, want 9000", cfg.Server.Port)
	}
	if cfg.EventLog.Path != "/var/log/decoy/attacks.log" {
		t.Errorf("EventLog.Path: got %q", cfg.EventLog.Path)
	}
	if got := cfg.Decoy.HoneypotAPIKeys; len(got) != 2 || got[0] != "key-one" || got[1] != "key-two" {
		t.Errorf("HoneypotAPIKeys: got %v", got)
	}
	if len(cfg.Server.TrustedProxies) != 2 {
		t.Errorf("TrustedProxies: got %v", cfg.Server.TrustedProxies)
	}
	if !cfg.Alerts.Enabled() || len(cfg.Alerts.EmailTo) != 2 {
		t.Errorf("Alerts: got %+v", cfg.Alerts)
	}
	if cfg.Alerts.Timeout != 3*time.Second {
		t.Errorf("Alerts.Timeout: got %v, want 3s", cfg.Alerts.Timeout)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout: got %v, want 15s", cfg.Server.ReadTimeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"production without honeypot keys", map[string]string{"ENV": "production"}},
		{"alerts without sender", map[string]string{"ALERT_EMAIL_TO": "soc@example.com"}},
		{"negative tarpit", map[string]string{"TARPIT_BASE_DELAY_MS": "-1"}},
		{"tarpit longer than write timeout", map[string]string{"TARPIT_BASE_DELAY_MS": "20000"}},
		{"zero stats rate", map[string]string{"STATS_REQUESTS_PER_MINUTE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() = nil, want error")
			}
		})
	}
}

func TestLoad_ProductionWithKeys(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("HONEYPOT_API_KEYS", "prod-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if len(cfg.Decoy.HoneypotAPIKeys) != 1 || cfg.Decoy.HoneypotAPIKeys[0] != "prod-key" {
		t.Errorf("HoneypotAPIKeys: got %v", cfg.Decoy.HoneypotAPIKeys)
	}
}
