package models

import "errors"

// Sentinel errors for the event log
var (
	ErrEventStoreUnavailable = errors.New("event store unavailable")
	ErrUnrecognizedLine      = errors.New("unrecognized event log line")
)
