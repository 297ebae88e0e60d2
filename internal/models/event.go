package models

import "time"

// EventKind identifies which variant an Event is
type EventKind string

const (
	EventKindLoginAttempt    EventKind = "login_attempt"
	EventKindBruteForceAlert EventKind = "brute_force_alert"
	EventKindScamMessage     EventKind = "scam_message"
)

// Event is one immutable record in the attack event log.
// The concrete types are LoginAttempt, BruteForceAlert and ScamMessage.
type Event interface {
	Kind() EventKind
}

// LoginAttempt is a credential submission against one of the decoy login endpoints
type LoginAttempt struct {
	Timestamp time.Time
	Endpoint  string
	ClientIP  string
	UserAgent string
	Username  string
	Password  string
}

// BruteForceAlert is emitted once an IP reaches the attempt threshold since its last alert
type BruteForceAlert struct {
	Timestamp    time.Time
	ClientIP     string
	AttemptCount int
}

// ScamMessage is a message posted to the scam intake endpoint, stored lower-cased
type ScamMessage struct {
	ClientIP string
	Text     string
}

func (LoginAttempt) Kind() EventKind    { return EventKindLoginAttempt }
func (BruteForceAlert) Kind() EventKind { return EventKindBruteForceAlert }
func (ScamMessage) Kind() EventKind     { return EventKindScamMessage }
