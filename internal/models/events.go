package models

import (
	"encoding/json"
	"time"
)

// Callback outcome constants emitted on the status topic.
const (
	CallbackOutcomeCommitted = "committed"
	CallbackOutcomeIgnored   = "ignored"
	CallbackOutcomeDuplicate = "duplicate"
	CallbackOutcomeFailed    = "failed"
)

// Failure types for DLQ records.
const (
	FailureTypePermanent  = "permanent"
	FailureTypeTransient  = "transient"
	FailureTypeValidation = "validation"
	FailureTypeUnknown    = "unknown"
)

// CallbackStatusEvent is the lifecycle event published after each processed
// gateway callback so downstream consumers can observe payment progress.
type CallbackStatusEvent struct {
	EventID     string    `json:"event_id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Outcome     string    `json:"outcome"`
	Attempt     int       `json:"attempt,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// CallbackDLQRecord wraps a callback that could not be processed together
// with the failure history needed for manual replay.
type CallbackDLQRecord struct {
	EventID       string          `json:"event_id"`
	OrderNumber   string          `json:"order_number,omitempty"`
	RawCallback   json.RawMessage `json:"raw_callback"`
	Attempts      int             `json:"attempts"`
	FailureType   string          `json:"failure_type"`
	LastError     string          `json:"last_error,omitempty"`
	FirstFailedAt time.Time       `json:"first_failed_at"`
	LastAttemptAt time.Time       `json:"last_attempt_at"`
}
