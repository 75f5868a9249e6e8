package engine

import (
	"fmt"
	"time"
)

// InvalidInputError rejects malformed caller input before any state changes.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// TemporalOrderingError rejects a sample whose timestamp precedes the
// currently open visit. Accepting it would make exited_at < entered_at;
// the collaborator feeding samples must re-order or discard.
type TemporalOrderingError struct {
	Timestamp time.Time
	OpenSince time.Time
}

func (e *TemporalOrderingError) Error() string {
	return fmt.Sprintf("out-of-order sample: timestamp %s precedes open visit entered at %s",
		e.Timestamp.UTC().Format(time.RFC3339), e.OpenSince.UTC().Format(time.RFC3339))
}

// ConsistencyError is fatal for one transition: the repository reported a
// state the engine refuses to guess its way out of, such as two open visits
// for the same owner.
type ConsistencyError struct {
	UID    string
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation for owner %s: %s", e.UID, e.Detail)
}

// DispatchError records a failed hand-off to the action dispatcher. It is
// logged, never returned to the visit-transition path.
type DispatchError struct {
	TriggerID string
	Err       error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch failed for trigger %s: %v", e.TriggerID, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
