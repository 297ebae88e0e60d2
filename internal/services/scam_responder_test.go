package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BradenHooton/decoyra/internal/services"
)

func TestScamResponder_Reply(t *testing.T) {
	responder := services.NewScamResponder()

	tests := []struct {
		name     string
		text     string
		wantRule string
		want     string
	}{
		{"blocked", "Your account is blocked", "suspended", "Why is my account being suspended?"},
		{"suspended", "account SUSPENDED today", "suspended", "Why is my account being suspended?"},
		{"otp", "Share the OTP now", "otp", "I did not receive any OTP. Can you resend?"},
		{"verify", "Please Verify your details", "verify", "How do I verify it?"},
		{"suspension wins over otp and verify", "Your account will be BLOCKED unless you verify OTP", "suspended", "Why is my account being suspended?"},
		{"otp wins over verify", "verify with the otp", "otp", "I did not receive any OTP. Can you resend?"},
		{"substring match", "unverifyable", "verify", "How do I verify it?"},
		{"fallback", "hello there", "fallback", "Can you explain this again?"},
		{"empty", "", "fallback", "Can you explain this again?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, responder.Reply(tt.text))
			assert.Equal(t, tt.wantRule, responder.Match(tt.text).Name)
		})
	}
}

func TestNormalizeMessage(t *testing.T) {
	assert.Equal(t, "verify your otp", services.NormalizeMessage("VeRiFy Your OTP"))
	assert.Equal(t, "", services.NormalizeMessage(""))
}
