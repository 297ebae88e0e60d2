package services

import "strings"

// ScamRule maps message keywords to a canned reply
type ScamRule struct {
	Name     string
	Keywords []string
	Reply    string
}

// FallbackRule answers anything no other rule matches
var FallbackRule = ScamRule{
	Name:  "fallback",
	Reply: "Can you explain this again?",
}

// scamRules are checked in order, first match wins
var scamRules = []ScamRule{
	{
		Name:     "suspended",
		Keywords: []string{"blocked", "suspended"},
		Reply:    "Why is my account being suspended?",
	},
	{
		Name:     "otp",
		Keywords: []string{"otp"},
		Reply:    "I did not receive any OTP. Can you resend?",
	},
	{
		Name:     "verify",
		Keywords: []string{"verify"},
		Reply:    "How do I verify it?",
	},
}

// ScamResponder plays the confused victim. It keeps no state between calls.
type ScamResponder struct{}

// NewScamResponder creates a new ScamResponder
func NewScamResponder() *ScamResponder {
	return &ScamResponder{}
}

// Match returns the first rule whose keyword appears in the lower-cased text
func (r *ScamResponder) Match(text string) ScamRule {
	normalized := NormalizeMessage(text)
	for _, rule := range scamRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return rule
			}
		}
	}
	return FallbackRule
}

// Reply returns the canned reply for text
func (r *ScamResponder) Reply(text string) string {
	return r.Match(text).Reply
}

// NormalizeMessage is the form a scam message is matched and stored in
func NormalizeMessage(text string) string {
	return strings.ToLower(text)
}
